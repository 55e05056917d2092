package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrExchangeFailed = errors.New("identity provider exchange failed")

// SessionData is the profile the identity provider returns for a valid
// authorization artifact.
type SessionData struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Provider exchanges an OAuth session id for the authenticated profile.
type Provider interface {
	GetSessionData(ctx context.Context, sessionID string) (*SessionData, error)
}

// HTTPProvider calls the hosted OAuth session-data endpoint.
type HTTPProvider struct {
	url    string
	client *http.Client
}

func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{url: url, client: &http.Client{Timeout: timeout}}
}

func (p *HTTPProvider) GetSessionData(ctx context.Context, sessionID string) (*SessionData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data SessionData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: invalid response", ErrExchangeFailed)
	}
	if data.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrExchangeFailed)
	}
	return &data, nil
}
