package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// webhookTolerance bounds how old a signed webhook timestamp may be.
const webhookTolerance = 5 * time.Minute

// StripeGateway implements Gateway against the Stripe Checkout REST API.
type StripeGateway struct {
	apiURL        string
	secretKey     string
	webhookSecret string
	client        *http.Client
}

func NewStripeGateway(apiURL, secretKey, webhookSecret string, timeout time.Duration) *StripeGateway {
	return &StripeGateway{
		apiURL:        strings.TrimSuffix(apiURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		client:        &http.Client{Timeout: timeout},
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", req.SuccessURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", req.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(int64(math.Round(req.Amount*100)), 10))
	form.Set("line_items[0][price_data][product_data][name]", req.Label)
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var out struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := g.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &out); err != nil {
		return nil, err
	}
	return &CheckoutSession{SessionID: out.ID, URL: out.URL}, nil
}

func (g *StripeGateway) GetSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var out SessionStatus
	if err := g.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyWebhook checks the Stripe-Signature header (HMAC-SHA256 over
// "<timestamp>.<body>") and parses the event payload.
func (g *StripeGateway) VerifyWebhook(rawBody []byte, sigHeader string) (*WebhookEvent, error) {
	timestamp, signatures := parseSignatureHeader(sigHeader)
	if timestamp == "" || len(signatures) == 0 {
		return nil, ErrInvalidSignature
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return nil, ErrInvalidSignature
	}
	age := time.Since(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return nil, ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	valid := false
	for _, sig := range signatures {
		if subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1 {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID            string `json:"id"`
				PaymentStatus string `json:"payment_status"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	return &WebhookEvent{
		Type:          event.Type,
		SessionID:     event.Data.Object.ID,
		PaymentStatus: event.Data.Object.PaymentStatus,
	}, nil
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, g.apiURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("payment API error: status %d", resp.StatusCode)
	}

	return json.Unmarshal(respBody, out)
}

// parseSignatureHeader splits "t=1492774577,v1=5257a8...,v1=..." into the
// timestamp and the v1 signature candidates.
func parseSignatureHeader(header string) (string, []string) {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	return timestamp, signatures
}
