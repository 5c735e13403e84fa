package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadImage handles admin uploads (product photos, QR codes, COA files).
// The bucket form field routes the file; defaults to "products".
func (a *App) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	bucket := c.PostForm("bucket")
	if bucket == "" {
		bucket = "products"
	}

	url, err := a.Uploads.Save(c, file, bucket)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     url,
	})
}
