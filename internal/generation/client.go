// Package generation talks to the external generative-AI service. The
// service is an opaque collaborator: text, image and audio payloads go in
// and come back as opaque strings or bytes. Narration audio is the one
// shape the rest of the studio depends on: base64-encoded raw PCM at
// 24000 Hz mono.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"storystudio/internal/narration"
)

// Upstream errors. ErrInvalidCredential is a kind of ErrUpstream, so
// callers matching the broad case still catch it.
var (
	ErrUpstream          = errors.New("generation service failure")
	ErrEmptyPayload      = errors.New("generation service returned no payload")
	ErrInvalidCredential = fmt.Errorf("%w: credential rejected", ErrUpstream)
)

// Service is the generation collaborator the studio depends on.
type Service interface {
	// GenerateText produces prose for an opaque prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateImage produces image bytes for an opaque prompt.
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)

	// GenerateNarration synthesizes a validated narration request into
	// base64-encoded raw PCM (24000 Hz mono s16le).
	GenerateNarration(ctx context.Context, req narration.Request) (string, error)
}

// Client implements Service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client for the generation endpoint.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type textResponse struct {
	Text string `json:"text"`
}

type narrationResponse struct {
	Audio string `json:"audio"` // base64 PCM
}

// GenerateText requests prose generation.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out textResponse
	if err := c.post(ctx, "/v1/text", map[string]string{"prompt": prompt}, &out); err != nil {
		return "", err
	}
	if out.Text == "" {
		return "", fmt.Errorf("%w: %w", ErrUpstream, ErrEmptyPayload)
	}
	return out.Text, nil
}

// GenerateImage requests image generation and returns the raw bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, err
	}
	resp, err := c.do(ctx, "/v1/image", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, ErrEmptyPayload)
	}
	return data, nil
}

// GenerateNarration dispatches a narration request and returns the base64
// PCM payload, which must go through the audio codec before playback.
func (c *Client) GenerateNarration(ctx context.Context, req narration.Request) (string, error) {
	var out narrationResponse
	if err := c.post(ctx, "/v1/narration", req, &out); err != nil {
		return "", err
	}
	if out.Audio == "" {
		// The vendor answers 200 with no audio when the request was
		// blocked; treat it the same as any empty payload.
		return "", fmt.Errorf("%w: %w", ErrUpstream, ErrEmptyPayload)
	}
	return out.Audio, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: undecodable response: %v", ErrUpstream, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		// "Entity not found" style answers mean the stored credential is
		// no longer valid; callers reset the credential-selected flag.
		return nil, fmt.Errorf("%w: status %d", ErrInvalidCredential, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		resp.Body.Close()
		log.Warn("generation service error", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return resp, nil
}
