package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Mailer dispatches transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// HTTPMailer posts messages to a JSON email API.
type HTTPMailer struct {
	apiURL string
	apiKey string
	from   string
	client *http.Client
}

func NewHTTPMailer(apiURL, apiKey, from string, timeout time.Duration) *HTTPMailer {
	return &HTTPMailer{
		apiURL: apiURL,
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: timeout},
	}
}

func (m *HTTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"from":    m.from,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email API error: status %d", resp.StatusCode)
	}
	return nil
}

// NoopMailer drops messages; used in tests and local development.
type NoopMailer struct{}

func (NoopMailer) Send(context.Context, string, string, string) error { return nil }
