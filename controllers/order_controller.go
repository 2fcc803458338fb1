package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/models"
	"github.com/homeservices/booking-api/services"
	"github.com/homeservices/booking-api/utils"
)

// CreateOrderRequest represents the request body for booking a service
type CreateOrderRequest struct {
	ServiceID     uint       `json:"service_id" binding:"required"`
	Address       string     `json:"address" binding:"required"`
	City          string     `json:"city" binding:"required"`
	Area          *string    `json:"area"`
	Pincode       *string    `json:"pincode"`
	Description   string     `json:"description" binding:"required"`
	ScheduledDate *time.Time `json:"scheduled_date"`
	Images        []string   `json:"images"`
}

// UpdateOrderStatusRequest represents the request body for moving an order along its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func orderService() *services.OrderService {
	return services.NewOrderService(config.GetDB(), services.GetImageService())
}

// CreateOrder handles POST /api/v1/orders - books a service for the current user
func CreateOrder(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().Create(c.Request.Context(), requester, services.CreateOrderInput{
		ServiceID:     req.ServiceID,
		Address:       req.Address,
		City:          req.City,
		Area:          req.Area,
		Pincode:       req.Pincode,
		Description:   req.Description,
		ScheduledDate: req.ScheduledDate,
		Images:        req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, order)
}

// ListMyOrders handles GET /api/v1/orders - the current user's orders, newest first
func ListMyOrders(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	orders, page, err := orderService().ListForUser(c.Request.Context(), requester, utils.ParsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, orders, page)
}

// GetOrder handles GET /api/v1/orders/:id - visible to its owner and to admins
func GetOrder(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := orderService().Get(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}

// ListAllOrders handles GET /api/v1/admin/orders?status= - every order, newest first
func ListAllOrders(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var filter services.OrderFilter
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, valid := models.ParseOrderStatus(strings.ToUpper(raw))
		if !valid {
			respondError(c, services.ValidationError("INVALID_STATUS", "Unknown order status "+raw))
			return
		}
		filter.Status = &status
	}

	orders, page, err := orderService().ListAll(c.Request.Context(), requester, filter, utils.ParsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, orders, page)
}

// UpdateOrderStatus handles PATCH /api/v1/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := orderService().Transition(c.Request.Context(), requester, id, strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, order)
}
