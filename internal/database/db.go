package database

import (
	"log"
	"time"

	"peptide-store/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the MySQL connection, waiting for the database to come up,
// then syncs the schema and seeds the shipping-fee table. The returned
// handle is injected everywhere - there is no package-level DB global.
func Connect(dsn string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	// Wait for DB to be ready (fresh docker-compose boots are slow)
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, err
	}

	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Database Schema Synced!")

	SeedShippingLocations(db)
	return db, nil
}

// Migrate syncs every table. Shared with the test helpers, which run the
// same migration against an in-memory sqlite handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariation{},
		&models.PromoCode{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingLocation{},
		&models.PaymentMethod{},
		&models.Courier{},
		&models.SiteSetting{},
		&models.FAQ{},
		&models.Protocol{},
		&models.CoaReport{},
	)
}

// SeedShippingLocations inserts the default region fees on first boot.
// Existing rows are left alone so admin edits survive restarts.
func SeedShippingLocations(db *gorm.DB) {
	defaults := []models.ShippingLocation{
		{Region: "metro_manila", Label: "Metro Manila", Fee: 100},
		{Region: "luzon", Label: "Luzon", Fee: 150},
		{Region: "visayas", Label: "Visayas", Fee: 200},
		{Region: "mindanao", Label: "Mindanao", Fee: 250},
	}
	for _, loc := range defaults {
		var existing models.ShippingLocation
		if err := db.Where("region = ?", loc.Region).First(&existing).Error; err != nil {
			db.Create(&loc)
		}
	}
}
