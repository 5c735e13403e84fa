package handlers

import (
	"io"
	"net/http"

	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// --- Public storefront reads ---

// GetProducts lists every available product with its variations.
func (a *App) GetProducts(c *gin.Context) {
	var products []models.Product

	q := a.DB.Preload("Variations").Where("available = ?", true)
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if c.Query("featured") == "true" {
		q = q.Where("featured = ?", true)
	}

	if err := q.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one product with variations, so the detail page can
// render dosage options and pen prices.
func (a *App) GetProduct(c *gin.Context) {
	var product models.Product
	if err := a.DB.Preload("Variations").First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *App) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := a.DB.Order("sort_order asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (a *App) GetFAQs(c *gin.Context) {
	var faqs []models.FAQ
	if err := a.DB.Where("published = ?", true).Order("sort_order asc").Find(&faqs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FAQs"})
		return
	}
	c.JSON(http.StatusOK, faqs)
}

func (a *App) GetProtocols(c *gin.Context) {
	var protocols []models.Protocol
	q := a.DB.Where("published = ?", true).Order("sort_order asc")
	if pid := c.Query("product_id"); pid != "" {
		q = q.Where("product_id = ?", pid)
	}
	if err := q.Find(&protocols).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch protocols"})
		return
	}
	c.JSON(http.StatusOK, protocols)
}

func (a *App) GetCoaReports(c *gin.Context) {
	var reports []models.CoaReport
	q := a.DB.Order("created_at desc")
	if pid := c.Query("product_id"); pid != "" {
		q = q.Where("product_id = ?", pid)
	}
	if err := q.Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch COA reports"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// GetPaymentMethods lists only active methods, in display order - the
// checkout defaults to the first one.
func (a *App) GetPaymentMethods(c *gin.Context) {
	var methods []models.PaymentMethod
	if err := a.DB.Where("active = ?", true).Order("sort_order asc").Find(&methods).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (a *App) GetShippingLocations(c *gin.Context) {
	var locations []models.ShippingLocation
	if err := a.DB.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (a *App) GetSiteSettings(c *gin.Context) {
	var settings []models.SiteSetting
	if err := a.DB.Find(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch site settings"})
		return
	}
	// Flatten to a key -> value map for the storefront
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, out)
}

// CatalogEvents streams product-change notifications over SSE. The
// storefront re-fetches the catalog whenever one arrives - it is a refresh
// signal, not a diff protocol.
func (a *App) CatalogEvents(c *gin.Context) {
	ch, cancel := a.Bus.Subscribe()
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("catalog", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
