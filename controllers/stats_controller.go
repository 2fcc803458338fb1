package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/services"
)

// GetDashboardStats handles GET /api/v1/admin/stats
func GetDashboardStats(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := services.NewStatsService(config.GetDB(), orderService()).Dashboard(c.Request.Context(), requester)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, stats)
}
