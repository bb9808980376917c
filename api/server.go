/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     One logrus line per request (middleware.go)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the dashboard (CORS_ORIGINS)

ROUTE GROUPS:
  /health                  Liveness and backend mode
  /api/enums/*             Enum catalogues
  /api/{kind}/*            One block per record kind
  /api/bookings/quote      Booking total projection
  /api/dashboard/summary   Landing page counters
  /api/demo/reset          Demo reseed

SECURITY NOTE:
  No authentication middleware. The backend owns authorization.

SEE ALSO:
  - handlers.go: Handler implementations
  - resources.go: Per-kind CRUD handlers
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. origins lists
// the allowed CORS origins.
func NewRouter(h *Handler, origins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/enums", func(r chi.Router) {
			r.Get("/", h.ListEnums)
			r.Get("/{name}", h.GetEnum)
		})

		extra := map[string]func(r chi.Router){
			"/bookings": func(r chi.Router) {
				r.Post("/quote", h.QuoteBooking)
				r.Get("/{id}/detail", h.GetBookingDetail)
			},
			"/buildings": func(r chi.Router) {
				r.Get("/{id}/stats", h.GetBuildingStats)
			},
		}
		for _, res := range h.resources() {
			r.Route(res.path(), func(r chi.Router) {
				res.mount(r)
				if more, ok := extra[res.path()]; ok {
					more(r)
				}
			})
		}

		r.Get("/dashboard/summary", h.GetSummary)
		r.Post("/demo/reset", h.ResetDemo)
	})

	return r
}
