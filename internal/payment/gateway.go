package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

// CheckoutRequest describes a hosted checkout session to create.
type CheckoutRequest struct {
	Amount     float64
	Currency   string
	Label      string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is the provider-hosted session the client is redirected to.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// SessionStatus is the provider's view of a checkout session.
type SessionStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// WebhookEvent is a verified, parsed provider webhook.
type WebhookEvent struct {
	Type          string
	SessionID     string
	PaymentStatus string
}

// Gateway is the payment-provider collaborator.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
	VerifyWebhook(rawBody []byte, sigHeader string) (*WebhookEvent, error)
}

// MockGateway is an in-memory Gateway for tests. Session payment states are
// settable, so duplicate-activation paths can be exercised deterministically.
type MockGateway struct {
	mu       sync.Mutex
	counter  int
	statuses map[string]SessionStatus

	FailCreate bool
}

func NewMockGateway() *MockGateway {
	return &MockGateway{statuses: make(map[string]SessionStatus)}
}

func (g *MockGateway) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if g.FailCreate {
		return nil, errors.New("payment provider unavailable")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	id := fmt.Sprintf("cs_test_%03d", g.counter)
	g.statuses[id] = SessionStatus{Status: "open", PaymentStatus: "unpaid"}
	return &CheckoutSession{SessionID: id, URL: "https://checkout.example.com/pay/" + id}, nil
}

func (g *MockGateway) GetSessionStatus(_ context.Context, sessionID string) (*SessionStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.statuses[sessionID]
	if !ok {
		return nil, errors.New("no such session")
	}
	return &st, nil
}

func (g *MockGateway) VerifyWebhook(rawBody []byte, sigHeader string) (*WebhookEvent, error) {
	if sigHeader != "mock-signature" {
		return nil, ErrInvalidSignature
	}
	return &WebhookEvent{Type: "checkout.session.completed", SessionID: string(rawBody), PaymentStatus: "paid"}, nil
}

// MarkPaid flips a mock session to paid.
func (g *MockGateway) MarkPaid(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses[sessionID] = SessionStatus{Status: "complete", PaymentStatus: "paid"}
}
