package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/homeservices/booking-api/config"
	"github.com/homeservices/booking-api/services"
)

// maxWebhookBody bounds the size of a gateway notification
const maxWebhookBody = 64 * 1024

// CreatePaymentIntentRequest represents the request body for starting a payment
type CreatePaymentIntentRequest struct {
	OrderID uint  `json:"order_id" binding:"required"`
	Amount  int64 `json:"amount" binding:"required"` // minor units
}

func paymentService() *services.PaymentService {
	return services.NewPaymentService(config.GetDB(), services.GetPaymentGateway(), config.GetConfig().PaymentCurrency)
}

// CreatePaymentIntent handles POST /api/v1/payments/intent
func CreatePaymentIntent(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := paymentService().CreateIntent(c.Request.Context(), requester, req.OrderID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result)
}

// ListOrderPayments handles GET /api/v1/orders/:id/payments
func ListOrderPayments(c *gin.Context) {
	_, requester, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	payments, err := paymentService().ForOrder(c.Request.Context(), requester, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, payments)
}

// PaymentWebhook handles POST /api/v1/payments/webhook - gateway notifications
func PaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := paymentService().HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
