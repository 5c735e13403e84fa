package database

import (
	"time"

	"peptide-store/internal/models"

	"gorm.io/gorm"
)

// revenueStatuses are the order states that count as money in the door.
// 'new' orders are unverified and 'cancelled' never shipped.
var revenueStatuses = []models.OrderStatus{
	models.OrderStatusConfirmed,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

// SalesReportResult holds the aggregates the dashboard and the AI tool share
type SalesReportResult struct {
	TotalRevenue float64
	TotalCount   int64
}

// GetSalesReport calculates revenue within a specific date range.
// Revenue = total_price + shipping_fee, i.e. what the customer actually paid.
func GetSalesReport(db *gorm.DB, start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	// COALESCE ensures we get 0 instead of NULL if no orders exist
	err := db.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("order_status IN ?", revenueStatuses).
		Select("COALESCE(SUM(total_price + shipping_fee), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Order{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Where("order_status IN ?", revenueStatuses).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// TopSeller is one row of the best-sellers table.
type TopSeller struct {
	ProductName string  `json:"product_name"`
	Sold        int     `json:"sold"`
	Revenue     float64 `json:"revenue"`
}

// GetTopSellers ranks order lines by units sold across confirmed-or-later
// orders. Lines are snapshots, so deleted products still show up here.
func GetTopSellers(db *gorm.DB, limit int) ([]TopSeller, error) {
	var rows []TopSeller
	err := db.Table("order_items").
		Select("order_items.name as product_name, SUM(order_items.quantity) as sold, SUM(order_items.line_total) as revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.order_status IN ?", revenueStatuses).
		Group("order_items.name").
		Order("sold desc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
