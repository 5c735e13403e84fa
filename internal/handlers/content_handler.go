package handlers

import (
	"net/http"

	"peptide-store/internal/models"

	"github.com/gin-gonic/gin"
)

// --- Admin content management: FAQs, protocols, COA reports, settings ---

// FAQs

func (a *App) ListAllFAQs(c *gin.Context) {
	var faqs []models.FAQ
	if err := a.DB.Order("sort_order asc").Find(&faqs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch FAQs"})
		return
	}
	c.JSON(http.StatusOK, faqs)
}

func (a *App) AddFAQ(c *gin.Context) {
	faq := models.FAQ{Published: true}
	if err := c.ShouldBindJSON(&faq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	faq.ID = 0
	if err := a.DB.Create(&faq).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create FAQ"})
		return
	}
	c.JSON(http.StatusCreated, faq)
}

func (a *App) UpdateFAQ(c *gin.Context) {
	var existing models.FAQ
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "FAQ not found"})
		return
	}

	var input models.FAQ
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = existing.ID

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update FAQ"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeleteFAQ(c *gin.Context) {
	if err := a.DB.Delete(&models.FAQ{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete FAQ"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "FAQ deleted"})
}

// Protocols

func (a *App) ListAllProtocols(c *gin.Context) {
	var protocols []models.Protocol
	if err := a.DB.Order("sort_order asc").Find(&protocols).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch protocols"})
		return
	}
	c.JSON(http.StatusOK, protocols)
}

func (a *App) AddProtocol(c *gin.Context) {
	p := models.Protocol{Published: true}
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	p.ID = 0
	if err := a.DB.Create(&p).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create protocol"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (a *App) UpdateProtocol(c *gin.Context) {
	var existing models.Protocol
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Protocol not found"})
		return
	}

	var input models.Protocol
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = existing.ID

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update protocol"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeleteProtocol(c *gin.Context) {
	if err := a.DB.Delete(&models.Protocol{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete protocol"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Protocol deleted"})
}

// COA reports

func (a *App) AddCoaReport(c *gin.Context) {
	var report models.CoaReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	report.ID = 0
	if err := a.DB.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create COA report"})
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (a *App) UpdateCoaReport(c *gin.Context) {
	var existing models.CoaReport
	if err := a.DB.First(&existing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "COA report not found"})
		return
	}

	var input models.CoaReport
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = existing.ID
	input.CreatedAt = existing.CreatedAt

	if err := a.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update COA report"})
		return
	}
	c.JSON(http.StatusOK, input)
}

func (a *App) DeleteCoaReport(c *gin.Context) {
	if err := a.DB.Delete(&models.CoaReport{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete COA report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "COA report deleted"})
}

// Site settings - upsert by key

type SiteSettingInput struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

func (a *App) UpsertSiteSetting(c *gin.Context) {
	var input SiteSettingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var setting models.SiteSetting
	err := a.DB.Where("`key` = ?", input.Key).First(&setting).Error
	if err != nil {
		setting = models.SiteSetting{Key: input.Key, Value: input.Value}
		if err := a.DB.Create(&setting).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
			return
		}
	} else {
		if err := a.DB.Model(&setting).Update("value", input.Value).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save setting"})
			return
		}
		setting.Value = input.Value
	}
	c.JSON(http.StatusOK, setting)
}

func (a *App) DeleteSiteSetting(c *gin.Context) {
	if err := a.DB.Where("`key` = ?", c.Param("key")).Delete(&models.SiteSetting{}).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete setting"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Setting deleted"})
}
