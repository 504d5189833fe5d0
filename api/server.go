/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for a kiosk frontend

ROUTE GROUPS:
  /api/quotes      Stateless fee computation
  /api/tickets/*   Ticket lifecycle
  /api/policy      Active policy table

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/quotes", h.Quote)

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", h.CreateTicket)
			r.Get("/pending", h.ListPending)
			r.Get("/completed", h.ListCompleted)
			r.Get("/{id}", h.GetTicket)
			r.Post("/{id}/checkout", h.Checkout)
			r.Post("/{id}/lost", h.ReportLost)
			r.Get("/{id}/receipt", h.GetReceipt)
		})

		r.Get("/policy", h.GetPolicy)
	})

	return r
}
