// Package checkout fronts the payment provider: creating hosted checkout
// sessions and verifying the webhook deliveries that confirm them.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrMissingPrice = errors.New("price id is required")
	ErrProvider     = errors.New("payment provider failure")
)

// Client creates checkout sessions against the provider's REST API.
type Client struct {
	httpClient *http.Client
	secretKey  string
	baseURL    string
	successURL string
	cancelURL  string
}

// NewClient builds a session client. successURL and cancelURL are where the
// provider redirects the customer after checkout; the success URL carries
// the payment_success marker the session guard reconciles on return.
func NewClient(secretKey, successURL, cancelURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com",
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession opens a subscription checkout session for priceID and
// returns the hosted payment page URL.
func (c *Client) CreateSession(ctx context.Context, priceID string) (string, error) {
	if strings.TrimSpace(priceID) == "" {
		return "", ErrMissingPrice
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.secretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrProvider, resp.StatusCode)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return "", fmt.Errorf("%w: undecodable session: %v", ErrProvider, err)
	}
	if session.URL == "" {
		return "", fmt.Errorf("%w: session without url", ErrProvider)
	}
	return session.URL, nil
}
