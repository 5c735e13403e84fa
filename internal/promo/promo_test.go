package promo

import (
	"testing"
	"time"

	"peptide-store/internal/models"
	"peptide-store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrT(v time.Time) *time.Time {
	return &v
}

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		promo    models.PromoCode
		subtotal float64
		want     float64
		wantErr  error
	}{
		{
			name: "percentage capped at max discount",
			promo: models.PromoCode{
				Code: "SAVE10", Active: true,
				DiscountType: "percentage", DiscountValue: 10,
				MaxDiscountAmount: ptrF(300),
			},
			subtotal: 5000,
			want:     300, // min(500, 300)
		},
		{
			name: "percentage under the cap",
			promo: models.PromoCode{
				Code: "SAVE10", Active: true,
				DiscountType: "percentage", DiscountValue: 10,
				MaxDiscountAmount: ptrF(300),
			},
			subtotal: 2000,
			want:     200,
		},
		{
			name: "percentage with no cap",
			promo: models.PromoCode{
				Code: "HALF", Active: true,
				DiscountType: "percentage", DiscountValue: 50,
			},
			subtotal: 5000,
			want:     2500,
		},
		{
			name: "fixed discount",
			promo: models.PromoCode{
				Code: "MINUS200", Active: true,
				DiscountType: "fixed", DiscountValue: 200,
			},
			subtotal: 1000,
			want:     200,
		},
		{
			name: "fixed discount never exceeds subtotal",
			promo: models.PromoCode{
				Code: "MINUS500", Active: true,
				DiscountType: "fixed", DiscountValue: 500,
			},
			subtotal: 300,
			want:     300,
		},
		{
			name: "inactive code",
			promo: models.PromoCode{
				Code: "OLD", Active: false,
				DiscountType: "fixed", DiscountValue: 100,
			},
			subtotal: 1000,
			wantErr:  ErrNotFound,
		},
		{
			name: "not started yet",
			promo: models.PromoCode{
				Code: "SOON", Active: true,
				StartDate:    ptrT(now.Add(24 * time.Hour)),
				DiscountType: "fixed", DiscountValue: 100,
			},
			subtotal: 1000,
			wantErr:  ErrNotYetValid,
		},
		{
			name: "expired",
			promo: models.PromoCode{
				Code: "GONE", Active: true,
				EndDate:      ptrT(now.Add(-24 * time.Hour)),
				DiscountType: "fixed", DiscountValue: 100,
			},
			subtotal: 1000,
			wantErr:  ErrExpired,
		},
		{
			name: "usage limit reached",
			promo: models.PromoCode{
				Code: "FULL", Active: true,
				UsageLimit: ptrI(5), UsageCount: 5,
				DiscountType: "fixed", DiscountValue: 100,
			},
			subtotal: 1000,
			wantErr:  ErrLimitReached,
		},
		{
			name: "below minimum purchase",
			promo: models.PromoCode{
				Code: "BIGSPEND", Active: true,
				MinPurchaseAmount: 1000,
				DiscountType:      "fixed", DiscountValue: 100,
			},
			subtotal: 500,
			wantErr:  ErrBelowMinimum,
		},
		{
			name: "expiry beats usage limit in check order",
			promo: models.PromoCode{
				Code: "BOTH", Active: true,
				EndDate:    ptrT(now.Add(-time.Hour)),
				UsageLimit: ptrI(1), UsageCount: 1,
				DiscountType: "fixed", DiscountValue: 100,
			},
			subtotal: 1000,
			wantErr:  ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(&tt.promo, tt.subtotal, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.DiscountAmount)

			// Invariant: 0 <= discount <= subtotal
			assert.GreaterOrEqual(t, res.DiscountAmount, 0.0)
			assert.LessOrEqual(t, res.DiscountAmount, tt.subtotal)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	pc := models.PromoCode{
		Code: "SAVE10", Active: true,
		DiscountType: "percentage", DiscountValue: 10,
		MaxDiscountAmount: ptrF(300),
	}

	first, err := Apply(&pc, 5000, now)
	require.NoError(t, err)
	second, err := Apply(&pc, 5000, now)
	require.NoError(t, err)
	assert.Equal(t, first.DiscountAmount, second.DiscountAmount)
}

func TestLookup(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&models.PromoCode{
		Code: "SAVE10", Active: true,
		DiscountType: "percentage", DiscountValue: 10,
	}).Error)
	require.NoError(t, db.Create(&models.PromoCode{
		Code: "HIDDEN", Active: false,
		DiscountType: "fixed", DiscountValue: 50,
	}).Error)

	// Case-insensitive, whitespace-tolerant
	pc, err := Lookup(db, "  save10 ")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", pc.Code)

	// Inactive rows look like missing rows
	_, err = Lookup(db, "HIDDEN")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Lookup(db, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordUsage(t *testing.T) {
	db := testutil.NewDB(t)
	pc := models.PromoCode{Code: "SAVE10", Active: true, DiscountType: "fixed", DiscountValue: 10}
	require.NoError(t, db.Create(&pc).Error)

	require.NoError(t, RecordUsage(db, pc.ID))
	require.NoError(t, RecordUsage(db, pc.ID))

	var reloaded models.PromoCode
	require.NoError(t, db.First(&reloaded, pc.ID).Error)
	assert.Equal(t, 2, reloaded.UsageCount)
}
