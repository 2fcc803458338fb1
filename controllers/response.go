package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/middleware"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/services"
	"github.com/homeservices/booking-api/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// statusFor maps an error kind to its HTTP status
func statusFor(appErr *services.AppError) int {
	switch appErr.Kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		if appErr.Code == "INVALID_CREDENTIALS" {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict, services.KindInvalidTransition, services.KindInvalidState:
		return http.StatusConflict
	case services.KindDependency:
		return http.StatusBadGateway
	case services.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes the error envelope for err
func respondError(c *gin.Context, err error) {
	appErr, ok := services.AsAppError(err)
	if !ok {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "Something went wrong",
			},
		})
		return
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Retryable() {
		body["retryable"] = true
		logrus.WithError(appErr.Err).WithField("path", c.Request.URL.Path).Error(appErr.Message)
	}
	c.JSON(statusFor(appErr), gin.H{
		"success": false,
		"error":   body,
	})
}

// respondBindError reports a request body or query that failed to bind
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func respondPage(c *gin.Context, items interface{}, page utils.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       items,
		"pagination": page,
	})
}

// currentUser loads the authenticated user from the store so that role
// changes apply immediately. It writes the error response and returns false
// when the user cannot be resolved.
func currentUser(c *gin.Context) (*models.User, authz.Requester, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, authz.Requester{}, false
	}

	var user models.User
	if err := config.GetDB().WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "User profile not found",
				},
			})
			return nil, authz.Requester{}, false
		}
		respondError(c, services.DependencyError("failed to load user", err))
		return nil, authz.Requester{}, false
	}

	return &user, authz.Requester{ID: user.ID, Role: user.Role}, true
}

// paramID parses the :name path parameter as a positive id
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid " + name,
			},
		})
		return 0, false
	}
	return uint(id), true
}
