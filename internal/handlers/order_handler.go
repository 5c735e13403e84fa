package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"peptide-store/internal/fulfillment"
	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// --- Admin order workflow ---

// ListOrders returns orders newest first, optionally filtered by status.
func (a *App) ListOrders(c *gin.Context) {
	var orders []models.Order
	q := a.DB.Preload("Items").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		q = q.Where("order_status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (a *App) GetOrder(c *gin.Context) {
	var order models.Order
	if err := a.DB.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func orderID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return 0, false
	}
	return uint(id), true
}

// ConfirmOrder runs the stock-checked, all-or-nothing confirmation. A
// shortage comes back as a 400 naming the product and the exact counts;
// nothing was deducted in that case.
func (a *App) ConfirmOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := a.Fulfillment.Confirm(id)
	if err != nil {
		var shortage *fulfillment.ShortageError
		switch {
		case errors.As(err, &shortage):
			c.JSON(http.StatusBadRequest, gin.H{"error": shortage.Error()})
		case errors.Is(err, fulfillment.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, fulfillment.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order confirmed, stock deducted", "order": order})
}

type StatusUpdateRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus advances an order along the fulfillment chain.
func (a *App) UpdateOrderStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	order, err := a.Fulfillment.Advance(id, req.Status)
	if err != nil {
		var shortage *fulfillment.ShortageError
		switch {
		case errors.As(err, &shortage):
			c.JSON(http.StatusBadRequest, gin.H{"error": shortage.Error()})
		case errors.Is(err, fulfillment.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, fulfillment.ErrInvalidTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder terminates an order from new/confirmed/processing.
func (a *App) CancelOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := a.Fulfillment.Cancel(id)
	if err != nil {
		if errors.Is(err, fulfillment.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

// SetTracking stores the courier annotation, independent of status.
func (a *App) SetTracking(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var upd fulfillment.TrackingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	order, err := a.Fulfillment.SetTracking(id, upd)
	if err != nil {
		if errors.Is(err, fulfillment.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// BulkDeleteOrders deletes one at a time and reports the tally - no
// rollback if one fails partway.
func (a *App) BulkDeleteOrders(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids is required"})
		return
	}
	result := a.Fulfillment.BulkDelete(req.IDs)
	c.JSON(http.StatusOK, result)
}
