package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/services"
)

// LocationRequest represents the request body for creating or updating a location
type LocationRequest struct {
	City    *string `json:"city"`
	Area    *string `json:"area"`
	Pincode *string `json:"pincode"`
	Active  *bool   `json:"active"`
}

func (r LocationRequest) input() services.LocationInput {
	return services.LocationInput{City: r.City, Area: r.Area, Pincode: r.Pincode, Active: r.Active}
}

func locationService() *services.LocationService {
	return services.NewLocationService(config.GetDB())
}

// CheckLocation handles GET /api/v1/locations/check?city=&area=&pincode= (public)
func CheckLocation(c *gin.Context) {
	result, err := locationService().CheckAvailability(
		c.Request.Context(),
		c.Query("city"),
		c.Query("area"),
		c.Query("pincode"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// ListLocations handles GET /api/v1/admin/locations
func ListLocations(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	locations, err := locationService().List(c.Request.Context(), requester)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, locations)
}

// CreateLocation handles POST /api/v1/admin/locations
func CreateLocation(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	location, err := locationService().Create(c.Request.Context(), requester, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, location)
}

// UpdateLocation handles PATCH /api/v1/admin/locations/:id
func UpdateLocation(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	location, err := locationService().Update(c.Request.Context(), requester, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, location)
}

// DeleteLocation handles DELETE /api/v1/admin/locations/:id
func DeleteLocation(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := locationService().Delete(c.Request.Context(), requester, id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
