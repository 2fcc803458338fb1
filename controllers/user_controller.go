package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/services"
)

// UpdateProfileRequest represents the request body for updating one's own profile
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// AdminUpdateUserRequest represents the request body for an admin editing a user
type AdminUpdateUserRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Role  *string `json:"role"`
}

// GetMyProfile handles GET /api/v1/users/me - gets current user's profile
func GetMyProfile(c *gin.Context) {
	user, _, ok := currentUser(c)
	if !ok {
		return
	}

	respondOK(c, http.StatusOK, user)
}

// UpdateMyProfile handles PATCH /api/v1/users/me - updates current user's profile
func UpdateMyProfile(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := userService().UpdateProfile(c.Request.Context(), requester, services.ProfileInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/admin/users
func ListUsers(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	users, err := userService().List(c.Request.Context(), requester)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, users)
}

// UpdateUser handles PATCH /api/v1/admin/users/:id
func UpdateUser(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := userService().AdminUpdate(c.Request.Context(), requester, id, services.AdminUserInput{
		Name:  req.Name,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// DeleteUser handles DELETE /api/v1/admin/users/:id - removes a user and everything they own
func DeleteUser(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := userService().Delete(c.Request.Context(), requester, id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
