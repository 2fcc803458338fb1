package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MockPaymentGateway is an in-memory PaymentGateway for tests
type MockPaymentGateway struct {
	mu      sync.Mutex
	next    int
	Intents map[string]IntentRequest
	// Fail makes CreateIntent return an error
	Fail bool
	// Events maps a signature to the event ParseEvent should return for it
	Events map[string]*GatewayEvent
}

func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		Intents: make(map[string]IntentRequest),
		Events:  make(map[string]*GatewayEvent),
	}
}

func (m *MockPaymentGateway) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return nil, errors.New("gateway unavailable")
	}
	m.next++
	id := fmt.Sprintf("pi_mock_%d", m.next)
	m.Intents[id] = req
	return &Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method"}, nil
}

func (m *MockPaymentGateway) ParseEvent(payload []byte, signature string) (*GatewayEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, ok := m.Events[signature]
	if !ok {
		return nil, errors.New("invalid webhook signature")
	}
	return event, nil
}
