package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/staywise/concierge/internal/http/handlers"
	"github.com/staywise/concierge/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	WhatsAppWebhooks *handlers.WhatsAppWebhookHandler
	MetricsHandler   http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.WhatsAppWebhooks != nil {
		r.Get("/webhook", cfg.WhatsAppWebhooks.Verify)
		r.Post("/webhook", cfg.WhatsAppWebhooks.Receive)
	}

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
