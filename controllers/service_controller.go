package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/services"
)

// ServiceRequest represents the request body for creating or updating a catalog entry
type ServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Price       *string `json:"price"`
	Active      *bool   `json:"active"`
}

func (r ServiceRequest) input() services.ServiceInput {
	return services.ServiceInput{
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Price:       r.Price,
		Active:      r.Active,
	}
}

func catalogService() *services.CatalogService {
	return services.NewCatalogService(config.GetDB())
}

// ListServices handles GET /api/v1/services - active services (public)
func ListServices(c *gin.Context) {
	list, err := catalogService().List(c.Request.Context(), authz.Requester{}, true)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, list)
}

// GetService handles GET /api/v1/services/:id (public)
func GetService(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	service, err := catalogService().Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, service)
}

// ListAllServices handles GET /api/v1/admin/services - every service with order counts
func ListAllServices(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := catalogService().List(c.Request.Context(), requester, false)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, list)
}

// CreateService handles POST /api/v1/admin/services
func CreateService(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := catalogService().Create(c.Request.Context(), requester, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, service)
}

// UpdateService handles PATCH /api/v1/admin/services/:id
func UpdateService(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	service, err := catalogService().Update(c.Request.Context(), requester, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, service)
}

// DeleteService handles DELETE /api/v1/admin/services/:id. Booked services
// are deactivated rather than removed.
func DeleteService(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := catalogService().Delete(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}
