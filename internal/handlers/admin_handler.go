package handlers

import (
	"net/http"

	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// --- Admin CRUD for the small config tables ---
// Each manager is the same shape: list everything (active or not), create,
// update, delete, with typed inputs.

// Promo codes

func (a *App) ListPromoCodes(c *gin.Context) {
	var codes []models.PromoCode
	if err := a.DB.Order("created_at desc").Find(&codes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promo codes"})
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (a *App) AddPromoCode(c *gin.Context) {
	var pc models.PromoCode
	if err := c.ShouldBindJSON(&pc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	pc.ID = 0
	pc.UsageCount = 0
	if err := a.DB.Create(&pc).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create promo code (is the code unique?)"})
		return
	}
	c.JSON(http.StatusCreated, pc)
}

func (a *App) UpdatePromoCode(c *gin.Context) {
	var existing models.PromoCode
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Promo code not found"})
		return
	}

	var input models.PromoCode
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	// Identity and the live counter are not editable
	input.ID = existing.ID
	input.UsageCount = existing.UsageCount
	input.CreatedAt = existing.CreatedAt

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promo code"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeletePromoCode(c *gin.Context) {
	if err := a.DB.Delete(&models.PromoCode{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete promo code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Promo code deleted"})
}

// Payment methods

func (a *App) ListAllPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := a.DB.Order("sort_order asc").Find(&methods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (a *App) AddPaymentMethod(c *gin.Context) {
	// Omitted "active" means active; an explicit false is kept.
	pm := models.PaymentMethod{Active: true}
	if err := c.ShouldBindJSON(&pm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	pm.ID = 0
	if err := a.DB.Create(&pm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment method"})
		return
	}
	c.JSON(http.StatusCreated, pm)
}

func (a *App) UpdatePaymentMethod(c *gin.Context) {
	var existing models.PaymentMethod
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment method not found"})
		return
	}

	var input models.PaymentMethod
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = existing.ID

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment method"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeletePaymentMethod(c *gin.Context) {
	if err := a.DB.Delete(&models.PaymentMethod{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete payment method"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}

// Shipping locations - the region set is fixed, only the fee moves.

type ShippingFeeInput struct {
	Fee float64 `json:"fee"`
}

func (a *App) UpdateShippingFee(c *gin.Context) {
	var loc models.ShippingLocation
	if err := a.DB.First(&loc, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Shipping location not found"})
		return
	}

	var input ShippingFeeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.Fee < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fee cannot be negative"})
		return
	}

	if err := a.DB.Model(&loc).Update("fee", input.Fee).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipping fee"})
		return
	}
	loc.Fee = input.Fee
	c.JSON(http.StatusOK, loc)
}

// Couriers

func (a *App) ListCouriers(c *gin.Context) {
	var couriers []models.Courier
	if err := a.DB.Find(&couriers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch couriers"})
		return
	}
	c.JSON(http.StatusOK, couriers)
}

func (a *App) AddCourier(c *gin.Context) {
	courier := models.Courier{IsActive: true}
	if err := c.ShouldBindJSON(&courier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	courier.ID = 0
	if err := a.DB.Create(&courier).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create courier (is the code unique?)"})
		return
	}
	c.JSON(http.StatusCreated, courier)
}

func (a *App) UpdateCourier(c *gin.Context) {
	var existing models.Courier
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Courier not found"})
		return
	}

	var input models.Courier
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = existing.ID

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update courier"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeleteCourier(c *gin.Context) {
	if err := a.DB.Delete(&models.Courier{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete courier"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Courier deleted"})
}

// Categories

func (a *App) AddCategory(c *gin.Context) {
	var cat models.Category
	if err := c.ShouldBindJSON(&cat); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	cat.ID = 0
	if err := a.DB.Create(&cat).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create category (is the name unique?)"})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (a *App) UpdateCategory(c *gin.Context) {
	var existing models.Category
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input models.Category
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = existing.ID

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeleteCategory(c *gin.Context) {
	if err := a.DB.Delete(&models.Category{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
