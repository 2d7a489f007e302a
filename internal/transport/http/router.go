package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodlink/pkg/platform/middleware/auth"
	"foodlink/pkg/platform/middleware/request"
)

// Registrar mounts a domain's routes.
type Registrar interface {
	Register(r chi.Router)
}

// Config is everything the router composes.
type Config struct {
	Logger         *slog.Logger
	RequestTimeout time.Duration
	Validator      auth.JWTValidator
	Gatherer       prometheus.Gatherer
	Metrics        *request.Metrics
	// Public routes skip authentication.
	Public []Registrar
	// Protected routes require a valid bearer token.
	Protected []Registrar
}

// NewRouter wires probes and /metrics without auth, then every protected
// domain behind RequireAuth.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.LatencyMiddleware(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}
	r.Use(request.BodyLimit(request.MaxBodyBytes))

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	for _, reg := range cfg.Public {
		reg.Register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		for _, reg := range cfg.Protected {
			reg.Register(r)
		}
	})
	return r
}
