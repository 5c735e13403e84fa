package handlers

import (
	"net/http"

	"peptide-store/internal/database"
	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// ReportData is the admin dashboard payload.
type ReportData struct {
	TotalRevenue float64              `json:"total_revenue"`
	TotalOrders  int64                `json:"total_orders"`
	PendingCount int64                `json:"pending_count"`
	TopSelling   []database.TopSeller `json:"top_selling"`
	RecentOrders []models.Order       `json:"recent_orders"`
}

// GetSalesReport aggregates revenue, order counts and best sellers.
// 'new' orders are excluded from revenue until confirmed.
func (a *App) GetSalesReport(c *gin.Context) {
	var data ReportData

	// 1. Revenue across confirmed-or-later orders (includes shipping)
	err := a.DB.Model(&models.Order{}).
		Where("order_status IN ?", []models.OrderStatus{
			models.OrderStatusConfirmed, models.OrderStatusProcessing,
			models.OrderStatusShipped, models.OrderStatusDelivered,
		}).
		Select("COALESCE(SUM(total_price + shipping_fee), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	// 2. Count all orders, and the queue of unconfirmed ones
	if err := a.DB.Model(&models.Order{}).Count(&data.TotalOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}
	if err := a.DB.Model(&models.Order{}).
		Where("order_status = ?", models.OrderStatusNew).
		Count(&data.PendingCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count pending orders"})
		return
	}

	// 3. Top 5 best sellers
	top, err := database.GetTopSellers(a.DB, 5)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}
	data.TopSelling = top

	// 4. Last 10 orders, newest first
	if err := a.DB.Preload("Items").Order("created_at desc").Limit(10).
		Find(&data.RecentOrders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent orders"})
		return
	}

	c.JSON(http.StatusOK, data)
}
