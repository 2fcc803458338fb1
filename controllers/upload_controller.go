package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/services"
	"github.com/homeservices/booking-api/utils"
)

// storageUnavailable reports that no image backend is configured
func storageUnavailable() error {
	return services.UnavailableError("STORAGE_DISABLED", "Image storage is not configured")
}

// UploadImage handles POST /api/v1/uploads - stores an order photo and returns its key
func UploadImage(c *gin.Context) {
	if _, _, ok := currentUser(c); !ok {
		return
	}

	images := services.GetImageService()
	if images == nil {
		respondError(c, storageUnavailable())
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required in the 'image' field",
			},
		})
		return
	}

	key, err := images.UploadImage(c.Request.Context(), fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		respondError(c, services.DependencyError("failed to upload image", err))
		return
	}

	url, err := images.GetImageURL(c.Request.Context(), key)
	if err != nil {
		respondError(c, services.DependencyError("failed to generate image URL", err))
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"key": key,
		"url": url,
	})
}

// DeleteImage handles DELETE /api/v1/admin/uploads?key= - removes a stored photo
func DeleteImage(c *gin.Context) {
	if _, _, ok := currentUser(c); !ok {
		return
	}

	images := services.GetImageService()
	if images == nil {
		respondError(c, storageUnavailable())
		return
	}

	key := strings.TrimSpace(c.Query("key"))
	if key == "" || strings.Contains(key, "..") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_KEY",
				"message": "A valid image key is required",
			},
		})
		return
	}

	if err := images.DeleteImage(c.Request.Context(), key); err != nil {
		respondError(c, services.DependencyError("failed to delete image", err))
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
