/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:    Unique ID per request for tracing
  2. Logger:       Request logging
  3. Recoverer:    Panic recovery (500 instead of crash)
  4. CORS:         Cross-origin requests for the calendar UI
  5. Authenticate: Bearer token on everything under /api

ROUTE GROUPS:
  /healthz              Liveness, unauthenticated
  /api/users/*          Directory and per-user views
  /api/leaves/*         Leave lifecycle
  /api/holidays/*       Public holiday management
  /api/me/*             Caller's selections and inbox
  /api/team/*           Manager views
  /api/scenarios/*      Demo scenarios (demo mode only)
  /*                    Static files (calendar UI), when configured

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token verification and role checks
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the router.
type Options struct {
	JWTSecret   string
	CORSOrigins []string
	// StaticDir serves a built frontend when it exists. Empty disables it.
	StaticDir string
	// Demo mounts the scenario loader routes.
	Demo bool
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(opts.JWTSecret))

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.With(RequireManager).Get("/", h.ListUsers)
			r.With(RequireManager).Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/balance", h.GetBalance)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/summary.pdf", h.GetSummaryPDF)
			r.Get("/{id}/calendar", h.GetCalendar)
			r.Get("/{id}/leaves", h.ListUserLeaves)
		})

		// Leave routes
		r.Route("/leaves", func(r chi.Router) {
			r.Post("/", h.CreateLeave)
			r.Get("/{id}", h.GetLeave)
			r.Put("/{id}", h.EditLeave)
			r.Delete("/{id}", h.WithdrawLeave)
			r.Post("/{id}/cancel", h.CancelLeave)
			r.With(RequireManager).Post("/{id}/approve", h.ApproveLeave)
			r.With(RequireManager).Post("/{id}/reject", h.RejectLeave)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Group(func(r chi.Router) {
				r.Use(RequireManager)
				r.Post("/", h.CreateHoliday)
				r.Put("/{id}", h.UpdateHoliday)
				r.Delete("/{id}", h.DeleteHoliday)
			})
		})

		// Caller routes
		r.Route("/me", func(r chi.Router) {
			r.Get("/holidays", h.ListMyHolidays)
			r.Post("/holidays/{id}/toggle", h.ToggleMyHoliday)
			r.Get("/notifications", h.ListNotifications)
			r.Post("/notifications/{id}/read", h.MarkNotificationRead)
		})

		// Team routes
		r.Route("/team", func(r chi.Router) {
			r.Use(RequireManager)
			r.Get("/calendar", h.TeamCalendar)
			r.Get("/on-leave", h.OnLeave)
			r.Get("/reliability", h.TeamReliability)
			r.Get("/pending", h.PendingApprovals)
		})

		// Scenario routes (demo mode only)
		if opts.Demo {
			r.Route("/scenarios", func(r chi.Router) {
				r.Use(RequireManager)
				r.Get("/", h.ListScenarios)
				r.Post("/load", h.LoadScenario)
			})
		}
	})

	if opts.StaticDir != "" {
		mountStatic(r, opts.StaticDir)
	}

	return r
}

// mountStatic serves a single-page app from dir, falling back to index.html
// for client-side routes.
func mountStatic(r chi.Router, dir string) {
	if _, err := os.Stat(dir); err != nil {
		return
	}
	fileServer := http.FileServer(http.Dir(dir))
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		fullPath := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
