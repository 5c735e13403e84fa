package shipping

import (
	"testing"

	"peptide-store/internal/database"
	"peptide-store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFee(t *testing.T) {
	db := testutil.NewDB(t)
	database.SeedShippingLocations(db)

	tests := []struct {
		region  string
		want    float64
		wantErr bool
	}{
		{"metro_manila", 100, false},
		{"luzon", 150, false},
		{"visayas", 200, false},
		{"mindanao", 250, false},
		{"", 0, true},
		{"atlantis", 0, true},
	}

	for _, tt := range tests {
		t.Run("region "+tt.region, func(t *testing.T) {
			fee, err := Fee(db, tt.region)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRegion)
				assert.Equal(t, 0.0, fee)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee)
		})
	}
}

func TestFeeReflectsAdminEdit(t *testing.T) {
	db := testutil.NewDB(t)
	database.SeedShippingLocations(db)

	require.NoError(t, db.Exec("UPDATE shipping_locations SET fee = 175 WHERE region = 'luzon'").Error)

	fee, err := Fee(db, "luzon")
	require.NoError(t, err)
	assert.Equal(t, 175.0, fee)
}
