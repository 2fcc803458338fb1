package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	appConfig "github.com/homeservices/booking-api/config"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// IntentRequest describes a payment intent to open with the gateway
type IntentRequest struct {
	OrderID  uint
	UserID   uint
	Amount   int64 // minor units
	Currency string
}

// Intent is the gateway's view of an opened payment intent
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

// GatewayEvent is a verified webhook notification about a payment intent
type GatewayEvent struct {
	Type     string
	IntentID string
	Status   string
}

// PaymentGateway defines the operations the payment flow needs from a provider
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	// ParseEvent verifies the signature of a webhook payload and decodes it
	ParseEvent(payload []byte, signature string) (*GatewayEvent, error)
}

// StripeGateway implements PaymentGateway with Stripe PaymentIntents
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

var paymentGatewayInstance PaymentGateway

// InitPaymentGateway initializes the Stripe gateway from configuration
func InitPaymentGateway(cfg *appConfig.Config) PaymentGateway {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, nil)

	paymentGatewayInstance = &StripeGateway{
		api:           api,
		webhookSecret: cfg.StripeWebhookSecret,
	}
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized gateway, or nil when payments are
// not configured
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the gateway instance (primarily for testing)
func SetPaymentGateway(gateway PaymentGateway) {
	paymentGatewayInstance = gateway
}

func (g *StripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("order_id", strconv.FormatUint(uint64(req.OrderID), 10))
	params.AddMetadata("user_id", strconv.FormatUint(uint64(req.UserID), 10))

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret, Status: string(pi.Status)}, nil
}

func (g *StripeGateway) ParseEvent(payload []byte, signature string) (*GatewayEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid webhook signature: %w", err)
	}

	parsed := &GatewayEvent{Type: string(event.Type)}
	if event.Data == nil {
		return parsed, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode payment intent: %w", err)
	}
	parsed.IntentID = pi.ID
	parsed.Status = string(pi.Status)
	return parsed, nil
}
