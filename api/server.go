/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

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
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*   Employees, punches, stats, streaks
  /api/exceptions/*  Leave/WFH/early-leave approval flow
  /api/admin/*       Shifts, holidays, adjustments, period lifecycle
  /api/reports/*     Violation leaderboards
  /api/scenarios/*   Demo scenarios

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
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/stats", h.GetMonthlyStats)
			r.Get("/{id}/streak", h.GetStreak)
			r.Get("/{id}/punches", h.ListPunches)
			r.Post("/{id}/punches", h.RecordPunch)
			r.Delete("/{id}/punches/{punchID}", h.DeletePunch)
			r.Get("/{id}/shifts", h.ListShifts)
			r.Get("/{id}/adjustments", h.ListAdjustments)
		})

		// Exception approval routes
		r.Route("/exceptions", func(r chi.Router) {
			r.Post("/", h.CreateException)
			r.Get("/pending", h.ListPendingExceptions)
			r.Post("/{id}/approve", h.ApproveException)
			r.Post("/{id}/reject", h.RejectException)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/shifts", h.CreateShift)
			r.Post("/holidays", h.CreateHoliday)
			r.Post("/adjustments", h.CreateAdjustment)
			r.Post("/periods/close", h.ClosePeriod)
			r.Post("/periods/reopen", h.ReopenPeriod)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/rankings", h.GetRankings)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
