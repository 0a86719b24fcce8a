package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxWebhookBody caps webhook payload reads.
const maxWebhookBody = 1 << 20

// CompletedFunc is invoked for each verified checkout.session.completed
// event.
type CompletedFunc func(sessionID, customerEmail string)

// Server exposes the checkout HTTP surface.
type Server struct {
	sessions      sessionClient
	webhookSecret string
	tolerance     time.Duration
	onCompleted   CompletedFunc
	logger        *log.Logger
}

type sessionClient interface {
	CreateSession(ctx context.Context, priceID string) (string, error)
}

// NewServer builds the checkout server. onCompleted may be nil when the
// caller only wants the event logged.
func NewServer(sessions sessionClient, webhookSecret string, onCompleted CompletedFunc, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		sessions:      sessions,
		webhookSecret: webhookSecret,
		tolerance:     DefaultTolerance,
		onCompleted:   onCompleted,
		logger:        logger,
	}
}

// Router mounts the checkout endpoints. The webhook route reads the raw
// body before any JSON handling so signature verification sees the exact
// bytes the provider signed.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Post("/create-checkout-session", s.handleCreateSession)
		r.Post("/stripe-webhook", s.handleWebhook)
	})
	return r
}

type createSessionRequest struct {
	PriceID string `json:"priceId"`
}

type createSessionResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url, err := s.sessions.CreateSession(r.Context(), req.PriceID)
	switch {
	case errors.Is(err, ErrMissingPrice):
		respondWithError(w, http.StatusBadRequest, "priceId is required")
		return
	case err != nil:
		s.logger.Error("checkout session creation failed", "err", err)
		respondWithError(w, http.StatusBadGateway, "could not create checkout session")
		return
	}

	respondWithJSON(w, http.StatusOK, createSessionResponse{URL: url})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "unreadable payload")
		return
	}

	sig := r.Header.Get(SignatureHeader)
	if err := VerifySignature(payload, sig, s.webhookSecret, s.tolerance, time.Now()); err != nil {
		s.logger.Warn("webhook signature rejected", "err", err)
		respondWithError(w, http.StatusBadRequest, "signature verification failed")
		return
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, "undecodable event")
		return
	}

	if event.Type == EventCheckoutCompleted {
		s.logger.Info("checkout completed",
			"session", event.Data.Object.ID,
			"customer", event.Data.Object.CustomerEmail)
		if s.onCompleted != nil {
			s.onCompleted(event.Data.Object.ID, event.Data.Object.CustomerEmail)
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal JSON response", "err", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}
