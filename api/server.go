/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for a separately served frontend

ROUTE GROUPS:
  /api/items/*    JSON item operations
  /api/total      JSON total
  /items/*        HTML form actions
  /               HTML page
  /healthz        Liveness + store ping

SECURITY NOTE:
  No authentication. The service holds one user's list.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/items", func(r chi.Router) {
			r.Get("/", h.ListItems)
			r.Post("/", h.CreateItem)
			r.Delete("/", h.ClearItems)

			r.Route("/current", func(r chi.Router) {
				r.Get("/", h.GetCurrentItem)
				r.Put("/", h.UpdateCurrentItem)
				r.Delete("/", h.DeleteCurrentItem)
				r.Post("/back", h.BackFromEdit)
			})

			r.Get("/{id}", h.GetItem)
			r.Delete("/{id}", h.DeleteItem)
			r.Post("/{id}/edit", h.EditItem)
		})

		r.Get("/total", h.GetTotal)
	})

	// HTML form actions
	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.SubmitAdd)
		r.Post("/clear", h.SubmitClear)
		r.Post("/{id}/edit", h.SubmitEdit)
		r.Post("/current/update", h.SubmitUpdate)
		r.Post("/current/delete", h.SubmitDelete)
		r.Post("/current/back", h.SubmitBack)
	})

	r.Get("/", h.Page)
	r.Get("/healthz", h.Health)

	return r
}
