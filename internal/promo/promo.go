package promo

import (
	"errors"
	"strings"
	"time"

	"peptide-store/internal/models"

	"gorm.io/gorm"
)

// The validation failures, in the order they are checked. The first one
// that trips is the one the customer sees.
var (
	ErrNotFound     = errors.New("promo code not found")
	ErrNotYetValid  = errors.New("promo code is not active yet")
	ErrExpired      = errors.New("promo code has expired")
	ErrLimitReached = errors.New("promo code has reached its usage limit")
	ErrBelowMinimum = errors.New("order does not meet the minimum purchase amount")
)

// Result is what a successful application yields.
type Result struct {
	Promo          models.PromoCode
	DiscountAmount float64
}

// Lookup finds an active promo by code, case-insensitively.
// A row that exists but has active=false is treated the same as no row.
func Lookup(db *gorm.DB, code string) (*models.PromoCode, error) {
	var pc models.PromoCode
	err := db.Where("LOWER(code) = ? AND active = ?", strings.ToLower(strings.TrimSpace(code)), true).
		First(&pc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pc, nil
}

// Apply validates a promo against the subtotal at the given instant and
// computes the discount. Pure - no database access, no usage increment.
// Checks short-circuit: the first failing rule wins.
func Apply(pc *models.PromoCode, subtotal float64, now time.Time) (*Result, error) {
	if pc == nil || !pc.Active {
		return nil, ErrNotFound
	}
	if pc.StartDate != nil && now.Before(*pc.StartDate) {
		return nil, ErrNotYetValid
	}
	if pc.EndDate != nil && now.After(*pc.EndDate) {
		return nil, ErrExpired
	}
	if pc.UsageLimit != nil && pc.UsageCount >= *pc.UsageLimit {
		return nil, ErrLimitReached
	}
	if subtotal < pc.MinPurchaseAmount {
		return nil, ErrBelowMinimum
	}

	var discount float64
	if pc.DiscountType == "percentage" {
		discount = subtotal * pc.DiscountValue / 100
		if pc.MaxDiscountAmount != nil && discount > *pc.MaxDiscountAmount {
			discount = *pc.MaxDiscountAmount
		}
	} else {
		discount = pc.DiscountValue
	}

	// Whatever the type, the discount never exceeds the subtotal and never
	// touches the shipping fee.
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	return &Result{Promo: *pc, DiscountAmount: discount}, nil
}

// RecordUsage bumps the usage counter after an order lands. Best-effort:
// the caller logs a failure but keeps the order (see checkout.PlaceOrder).
func RecordUsage(db *gorm.DB, promoID uint) error {
	return db.Model(&models.PromoCode{}).
		Where("id = ?", promoID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
