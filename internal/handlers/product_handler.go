package handlers

import (
	"net/http"
	"strconv"

	"peptide-store/internal/events"
	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// --- Admin product management ---
// Writes use typed input structs - every updatable field is explicit here,
// nothing is shaped from the raw payload at runtime.

type ProductInput struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	BasePrice        float64  `json:"base_price"`
	DiscountPrice    *float64 `json:"discount_price"`
	DiscountActive   bool     `json:"discount_active"`
	PurityPercentage float64  `json:"purity_percentage"`
	StockQuantity    int      `json:"stock_quantity"`
	Available        *bool    `json:"available"`
	Featured         bool     `json:"featured"`
	ImageURL         string   `json:"image_url"`
	Inclusions       []string `json:"inclusions"`
}

func (in *ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.BasePrice = in.BasePrice
	p.DiscountPrice = in.DiscountPrice
	p.DiscountActive = in.DiscountActive
	p.PurityPercentage = in.PurityPercentage
	p.StockQuantity = in.StockQuantity
	if in.Available != nil {
		p.Available = *in.Available
	}
	p.Featured = in.Featured
	p.ImageURL = in.ImageURL
	p.Inclusions = in.Inclusions
}

func (a *App) AddProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product := models.Product{Available: true}
	input.apply(&product)

	if err := a.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	a.Bus.Publish(events.Event{Table: "products", Action: "insert", ID: product.ID})
	c.JSON(http.StatusCreated, product)
}

func (a *App) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := a.DB.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.apply(&product)

	if err := a.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	a.Bus.Publish(events.Event{Table: "products", Action: "update", ID: product.ID})
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// DeleteProduct removes a product and its variations. Past orders keep
// their snapshots, so history is unaffected.
func (a *App) DeleteProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	if err := a.DB.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product"})
		return
	}
	a.DB.Where("product_id = ?", id).Delete(&models.ProductVariation{})

	a.Bus.Publish(events.Event{Table: "products", Action: "delete", ID: uint(id)})
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- Variations ---

type VariationInput struct {
	Name               string   `json:"name" binding:"required"`
	QuantityMg         float64  `json:"quantity_mg"`
	Price              float64  `json:"price"`
	DiscountPrice      *float64 `json:"discount_price"`
	DiscountActive     bool     `json:"discount_active"`
	StockQuantity      int      `json:"stock_quantity"`
	DisposablePenPrice *float64 `json:"disposable_pen_price"`
	ReusablePenPrice   *float64 `json:"reusable_pen_price"`
}

func (in *VariationInput) apply(v *models.ProductVariation) {
	v.Name = in.Name
	v.QuantityMg = in.QuantityMg
	v.Price = in.Price
	v.DiscountPrice = in.DiscountPrice
	v.DiscountActive = in.DiscountActive
	v.StockQuantity = in.StockQuantity
	v.DisposablePenPrice = in.DisposablePenPrice
	v.ReusablePenPrice = in.ReusablePenPrice
}

func (a *App) AddVariation(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	// The owning product must exist
	var product models.Product
	if err := a.DB.First(&product, productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input VariationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	variation := models.ProductVariation{ProductID: product.ID}
	input.apply(&variation)

	if err := a.DB.Create(&variation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variation"})
		return
	}

	a.Bus.Publish(events.Event{Table: "product_variations", Action: "insert", ID: variation.ID})
	c.JSON(http.StatusCreated, variation)
}

func (a *App) UpdateVariation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("variationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Variation ID"})
		return
	}

	var variation models.ProductVariation
	if err := a.DB.First(&variation, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Variation not found"})
		return
	}

	var input VariationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.apply(&variation)

	if err := a.DB.Save(&variation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update variation"})
		return
	}

	a.Bus.Publish(events.Event{Table: "product_variations", Action: "update", ID: variation.ID})
	c.JSON(http.StatusOK, variation)
}

func (a *App) DeleteVariation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("variationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Variation ID"})
		return
	}

	if err := a.DB.Delete(&models.ProductVariation{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete variation"})
		return
	}

	a.Bus.Publish(events.Event{Table: "product_variations", Action: "delete", ID: uint(id)})
	c.JSON(http.StatusOK, gin.H{"message": "Variation deleted successfully"})
}
