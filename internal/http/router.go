package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the handlers to their routes
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", HealthHandler)
	r.Post("/query", h.QueryHandler)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSessionHandler)
		r.Get("/{id}", h.GetSessionHandler)
		r.Delete("/{id}", h.DeleteSessionHandler)
		r.Post("/{id}/messages", h.SendMessageHandler)
	})

	return r
}
