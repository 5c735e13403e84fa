package database

import (
	"testing"
	"time"

	"peptide-store/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func TestGetSalesReport(t *testing.T) {
	db := newDB(t)

	orders := []models.Order{
		{IdempotencyKey: "a", TotalPrice: 4700, ShippingFee: 150, OrderStatus: models.OrderStatusConfirmed},
		{IdempotencyKey: "b", TotalPrice: 2000, ShippingFee: 100, OrderStatus: models.OrderStatusDelivered},
		// Neither of these counts as revenue:
		{IdempotencyKey: "c", TotalPrice: 9000, ShippingFee: 250, OrderStatus: models.OrderStatusNew},
		{IdempotencyKey: "d", TotalPrice: 3000, ShippingFee: 150, OrderStatus: models.OrderStatusCancelled},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(time.Hour)

	report, err := GetSalesReport(db, start, end)
	require.NoError(t, err)
	assert.Equal(t, 4850.0+2100.0, report.TotalRevenue)
	assert.EqualValues(t, 2, report.TotalCount)
}

func TestGetSalesReportEmptyRange(t *testing.T) {
	db := newDB(t)

	report, err := GetSalesReport(db, time.Now().Add(-time.Hour), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.TotalRevenue)
	assert.EqualValues(t, 0, report.TotalCount)
}

func TestGetTopSellers(t *testing.T) {
	db := newDB(t)

	confirmed := models.Order{IdempotencyKey: "a", OrderStatus: models.OrderStatusConfirmed, Items: []models.OrderItem{
		{Name: "BPC-157 5mg", Quantity: 3, UnitPrice: 1500, LineTotal: 4500},
		{Name: "TB-500 10mg", Quantity: 1, UnitPrice: 3000, LineTotal: 3000},
	}}
	require.NoError(t, db.Create(&confirmed).Error)

	// Unconfirmed orders do not rank
	pending := models.Order{IdempotencyKey: "b", OrderStatus: models.OrderStatusNew, Items: []models.OrderItem{
		{Name: "GHK-Cu 50mg", Quantity: 99, UnitPrice: 100, LineTotal: 9900},
	}}
	require.NoError(t, db.Create(&pending).Error)

	top, err := GetTopSellers(db, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "BPC-157 5mg", top[0].ProductName)
	assert.Equal(t, 3, top[0].Sold)
	assert.Equal(t, 4500.0, top[0].Revenue)
}
