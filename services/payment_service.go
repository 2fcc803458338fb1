package services

import (
	"context"
	"strings"

	"github.com/homeservices/booking-api/authz"
	"github.com/homeservices/booking-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Webhook event types that update a recorded payment
var paymentEventStatus = map[string]string{
	"payment_intent.succeeded":      "succeeded",
	"payment_intent.payment_failed": "failed",
	"payment_intent.canceled":       "canceled",
}

// IntentResult is returned to the client to confirm the payment
type IntentResult struct {
	PaymentID    uint   `json:"payment_id"`
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// PaymentService opens payment intents for orders and records their outcome.
// Payments never change an order's status.
type PaymentService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	currency string
}

func NewPaymentService(db *gorm.DB, gateway PaymentGateway, currency string) *PaymentService {
	return &PaymentService{db: db, gateway: gateway, currency: strings.ToLower(currency)}
}

// CreateIntent opens a payment intent for amount minor units on the
// requester's own order
func (s *PaymentService) CreateIntent(ctx context.Context, r authz.Requester, orderID uint, amount int64) (*IntentResult, error) {
	if r.Anonymous() {
		return nil, UnauthorizedError("Sign in to pay for an order")
	}
	if orderID == 0 {
		return nil, ValidationError("VALIDATION_ERROR", "order_id is required")
	}
	if amount <= 0 {
		return nil, ValidationError("INVALID_AMOUNT", "Amount must be greater than zero")
	}
	if s.gateway == nil {
		return nil, UnavailableError("PAYMENTS_DISABLED", "Payments are not configured")
	}

	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, notFoundOr(err, "ORDER_NOT_FOUND", "Order not found")
	}
	if !authz.IsOwner(r.ID, order.UserID) {
		return nil, UnauthorizedError("Only the customer who placed the order can pay for it")
	}
	if order.Status == models.StatusCancelled {
		return nil, InvalidStateError("ORDER_CANCELLED", "Cannot pay for a cancelled order")
	}

	intent, err := s.gateway.CreateIntent(ctx, IntentRequest{
		OrderID:  order.ID,
		UserID:   r.ID,
		Amount:   amount,
		Currency: s.currency,
	})
	if err != nil {
		return nil, DependencyError("payment gateway unavailable", err)
	}

	payment := models.Payment{
		OrderID:  order.ID,
		IntentID: intent.ID,
		Amount:   amount,
		Currency: s.currency,
		Status:   intent.Status,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, DependencyError("failed to record payment", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"intent_id": intent.ID,
		"amount":    amount,
	}).Info("Payment intent created")

	return &IntentResult{
		PaymentID:    payment.ID,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.currency,
	}, nil
}

// HandleWebhook verifies a gateway notification and updates the matching
// payment. Unknown event types and unknown intents are acknowledged and
// ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.gateway == nil {
		return UnavailableError("PAYMENTS_DISABLED", "Payments are not configured")
	}

	event, err := s.gateway.ParseEvent(payload, signature)
	if err != nil {
		return ValidationError("INVALID_SIGNATURE", "Webhook signature verification failed")
	}

	status, ok := paymentEventStatus[event.Type]
	if !ok || event.IntentID == "" {
		logrus.WithField("event_type", event.Type).Debug("Ignoring payment webhook")
		return nil
	}

	result := s.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("intent_id = ?", event.IntentID).
		Update("status", status)
	if result.Error != nil {
		return DependencyError("failed to update payment", result.Error)
	}

	logrus.WithFields(logrus.Fields{
		"intent_id": event.IntentID,
		"status":    status,
		"matched":   result.RowsAffected,
	}).Info("Payment status updated")
	return nil
}

// ForOrder lists the payments recorded for an order visible to the requester
func (s *PaymentService) ForOrder(ctx context.Context, r authz.Requester, orderID uint) ([]models.Payment, error) {
	db := s.db.WithContext(ctx)

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		return nil, notFoundOr(err, "ORDER_NOT_FOUND", "Order not found")
	}
	if !authz.CanViewOrder(r, &order) {
		return nil, UnauthorizedError("You do not have access to this order")
	}

	payments := []models.Payment{}
	if err := db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, DependencyError("failed to fetch payments", err)
	}
	return payments, nil
}
