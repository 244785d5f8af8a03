package trigger

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/directus-community/directus-node/internal/audit"
	"github.com/directus-community/directus-node/pkg/types"
)

// Server is the local webhook receiver used by the CLI's listen command. It
// accepts flow deliveries, normalizes them, and hands the envelopes to a
// channel the caller drains. Embedded hosts register webhooks themselves and
// never use this.
type Server struct {
	normalizer *Normalizer
	resource   string
	event      string
	sessionID  string
	events     chan types.WebhookEvent
	log        *audit.Logger
}

// NewServer creates a receiver for one resource/event subscription.
func NewServer(normalizer *Normalizer, resource, event string, log *audit.Logger) *Server {
	return &Server{
		normalizer: normalizer,
		resource:   resource,
		event:      event,
		sessionID:  uuid.NewString(),
		events:     make(chan types.WebhookEvent, 16),
		log:        log,
	}
}

// Events returns the channel normalized envelopes arrive on.
func (s *Server) Events() <-chan types.WebhookEvent { return s.events }

// SessionID identifies this listener instance; it is part of the webhook
// path so stale flows from a previous run cannot deliver into it.
func (s *Server) SessionID() string { return s.sessionID }

// WebhookPath is the path Directus should POST events to.
func (s *Server) WebhookPath() string { return "/webhook/" + s.sessionID }

// Router builds the HTTP routes of the receiver.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/webhook/{session}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "session") != s.sessionID {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}

		var payload types.WebhookPayload
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid payload", http.StatusBadRequest)
			return
		}

		event := s.normalizer.Normalize(req.Context(), payload, s.resource, s.event)
		select {
		case s.events <- event:
		default:
			// A slow consumer drops the oldest delivery guarantee, not the
			// response to Directus.
			s.log.LogError("trigger", errEventBufferFull, nil)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"received": true})
	})

	return r
}

var errEventBufferFull = &bufferFullError{}

type bufferFullError struct{}

func (*bufferFullError) Error() string { return "event buffer full, delivery dropped" }
