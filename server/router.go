package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/tsawler/tickmatrix/config"
)

// NewRouter creates the HTTP router for the validation service.
func NewRouter(cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))

	h := &handlers{cfg: cfg, logger: logger}

	r.Get("/healthz", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/validate", h.validate)
		r.Post("/labels", h.labels)
	})

	return r
}
