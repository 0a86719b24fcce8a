package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	payload := []byte(`{"type":"checkout.session.completed"}`)
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		header := Sign(payload, secret, now)
		if err := VerifySignature(payload, header, secret, DefaultTolerance, now); err != nil {
			t.Errorf("valid signature rejected: %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := Sign(payload, "whsec_other", now)
		err := VerifySignature(payload, header, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrBadSignature) {
			t.Errorf("err = %v, want ErrBadSignature", err)
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := Sign(payload, secret, now)
		err := VerifySignature([]byte(`{"type":"evil"}`), header, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrBadSignature) {
			t.Errorf("err = %v, want ErrBadSignature", err)
		}
	})

	t.Run("stale timestamp", func(t *testing.T) {
		header := Sign(payload, secret, now.Add(-10*time.Minute))
		err := VerifySignature(payload, header, secret, DefaultTolerance, now)
		if !errors.Is(err, ErrStaleTimestamp) {
			t.Errorf("err = %v, want ErrStaleTimestamp", err)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		err := VerifySignature(payload, "", secret, DefaultTolerance, now)
		if !errors.Is(err, ErrMissingSignature) {
			t.Errorf("err = %v, want ErrMissingSignature", err)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		err := VerifySignature(payload, "v1=deadbeef", secret, DefaultTolerance, now)
		if !errors.Is(err, ErrMissingSignature) {
			t.Errorf("err = %v, want ErrMissingSignature", err)
		}
	})
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		if got := r.PostForm.Get("line_items[0][price]"); got != "price_123" {
			t.Errorf("price = %q", got)
		}
		if got := r.PostForm.Get("mode"); got != "subscription" {
			t.Errorf("mode = %q", got)
		}
		w.Write([]byte(`{"id":"cs_1","url":"https://pay.example/cs_1"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test", "https://app.example/?payment_success=true", "https://app.example/?payment_cancelled=true")
	c.baseURL = srv.URL

	url, err := c.CreateSession(context.Background(), "price_123")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if url != "https://pay.example/cs_1" {
		t.Errorf("url = %q", url)
	}
}

func TestCreateSessionMissingPrice(t *testing.T) {
	c := NewClient("sk_test", "s", "c")
	_, err := c.CreateSession(context.Background(), "  ")
	if !errors.Is(err, ErrMissingPrice) {
		t.Errorf("err = %v, want ErrMissingPrice", err)
	}
}

type fakeSessions struct {
	url string
	err error
}

func (f *fakeSessions) CreateSession(_ context.Context, priceID string) (string, error) {
	if strings.TrimSpace(priceID) == "" {
		return "", ErrMissingPrice
	}
	return f.url, f.err
}

func TestCreateSessionEndpoint(t *testing.T) {
	srv := NewServer(&fakeSessions{url: "https://pay.example/cs_2"}, "whsec", nil, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/create-checkout-session", "application/json",
		bytes.NewBufferString(`{"priceId":"price_9"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.URL != "https://pay.example/cs_2" {
		t.Errorf("url = %q", out.URL)
	}
}

func TestCreateSessionEndpointMissingPrice(t *testing.T) {
	srv := NewServer(&fakeSessions{}, "whsec", nil, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/create-checkout-session", "application/json",
		bytes.NewBufferString(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWebhookEndpoint(t *testing.T) {
	secret := "whsec_endpoint"
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_done","customer_email":"reader@example.com"}}}`)

	var gotSession, gotEmail string
	srv := NewServer(&fakeSessions{}, secret, func(sessionID, email string) {
		gotSession, gotEmail = sessionID, email
	}, nil)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	post := func(t *testing.T, body []byte, sig string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/stripe-webhook", bytes.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		if sig != "" {
			req.Header.Set(SignatureHeader, sig)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	t.Run("verified event dispatched", func(t *testing.T) {
		resp := post(t, payload, Sign(payload, secret, time.Now()))
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		if gotSession != "cs_done" || gotEmail != "reader@example.com" {
			t.Errorf("dispatched (%q, %q)", gotSession, gotEmail)
		}
	})

	t.Run("bad signature rejected before processing", func(t *testing.T) {
		gotSession, gotEmail = "", ""
		resp := post(t, payload, Sign(payload, "whsec_wrong", time.Now()))
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		if gotSession != "" {
			t.Error("unverified event must not reach the handler")
		}
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		resp := post(t, payload, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("other event types acknowledged", func(t *testing.T) {
		gotSession = ""
		other := []byte(`{"type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)
		resp := post(t, other, Sign(other, secret, time.Now()))
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d", resp.StatusCode)
		}
		if gotSession != "" {
			t.Error("non-checkout event must not dispatch")
		}
	})
}
