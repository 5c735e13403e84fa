package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"peptide-store/internal/cart"
	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// cartResponse is what every cart mutation hands back: the cart, its
// totals, and an optional clamp warning.
func cartResponse(c *gin.Context, snapshot cart.Cart, warning string) {
	resp := gin.H{
		"items":       snapshot.Items,
		"total_price": snapshot.TotalPrice(),
		"total_items": snapshot.TotalItems(),
	}
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (a *App) GetCart(c *gin.Context) {
	cartResponse(c, a.Carts.Snapshot(cartToken(c)), "")
}

type AddToCartRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	VariationID *uint  `json:"variation_id"`
	Quantity    int    `json:"quantity"`
	PenType     string `json:"pen_type"` // '', 'disposable' or 'reusable'
}

// AddToCart resolves the unit price server-side (variation, pen type and
// active discount) and appends or merges a cart line.
func (a *App) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// 1. Load the product (and the chosen variation, if any)
	var product models.Product
	if err := a.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !product.Available {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is not available"})
		return
	}

	var variation *models.ProductVariation
	if req.VariationID != nil {
		variation = &models.ProductVariation{}
		if err := a.DB.Where("id = ? AND product_id = ?", *req.VariationID, product.ID).
			First(variation).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Variation not found"})
			return
		}
	}

	// 2. Resolve stock and price for the line
	stock := product.StockQuantity
	name := product.Name
	if variation != nil {
		stock = variation.StockQuantity
		name = fmt.Sprintf("%s %s", product.Name, variation.Name)
	}
	if stock <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Out of stock"})
		return
	}

	item := cart.Item{
		ProductID:   product.ID,
		VariationID: req.VariationID,
		Name:        name,
		PenType:     req.PenType,
		Quantity:    req.Quantity,
		UnitPrice:   cart.ResolveUnitPrice(&product, variation, req.PenType),
		Purity:      product.PurityPercentage,
		Stock:       stock,
	}

	// 3. Append or merge; clamping to stock is a warning, not an error
	snapshot, clamped := a.Carts.Add(cartToken(c), item)
	warning := ""
	if clamped {
		warning = fmt.Sprintf("Only %d in stock for %s - quantity adjusted", stock, name)
	}
	cartResponse(c, snapshot, warning)
}

type UpdateCartRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateCartItem changes a line's quantity, re-reading current stock so the
// clamp ceiling is fresh.
func (a *App) UpdateCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart index"})
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token := cartToken(c)
	snapshot := a.Carts.Snapshot(token)
	if index < 0 || index >= len(snapshot.Items) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No cart line at that index"})
		return
	}
	line := snapshot.Items[index]

	// Re-read the referenced stock
	stock := line.Stock
	if line.VariationID != nil {
		var v models.ProductVariation
		if err := a.DB.First(&v, *line.VariationID).Error; err == nil {
			stock = v.StockQuantity
		}
	} else {
		var p models.Product
		if err := a.DB.First(&p, line.ProductID).Error; err == nil {
			stock = p.StockQuantity
		}
	}

	snapshot, clamped, err := a.Carts.UpdateQuantity(token, index, req.Quantity, stock)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	warning := ""
	if clamped && stock < 1 {
		warning = fmt.Sprintf("%s is out of stock - removed from cart", line.Name)
	} else if clamped {
		warning = fmt.Sprintf("Only %d in stock for %s - quantity adjusted", stock, line.Name)
	}
	cartResponse(c, snapshot, warning)
}

func (a *App) RemoveCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart index"})
		return
	}
	snapshot, err := a.Carts.Remove(cartToken(c), index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	cartResponse(c, snapshot, "")
}

func (a *App) ClearCart(c *gin.Context) {
	token := cartToken(c)
	a.Carts.Clear(token)
	cartResponse(c, a.Carts.Snapshot(token), "")
}
