package shipping

import (
	"errors"

	"peptide-store/internal/models"

	"gorm.io/gorm"
)

// ErrUnknownRegion blocks checkout until the customer picks a real region.
var ErrUnknownRegion = errors.New("unknown shipping region")

// Fee resolves a region id to its delivery fee from the admin-maintained
// table. An empty or unknown region yields 0 and an error - the checkout
// guard uses the error, storefront display uses the 0.
func Fee(db *gorm.DB, region string) (float64, error) {
	if region == "" {
		return 0, ErrUnknownRegion
	}
	var loc models.ShippingLocation
	if err := db.Where("region = ?", region).First(&loc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownRegion
		}
		return 0, err
	}
	return loc.Fee, nil
}
