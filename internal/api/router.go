package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/evindahl/punchcard/internal/auth"
	"github.com/evindahl/punchcard/internal/metrics"
	"github.com/evindahl/punchcard/internal/project"
	"github.com/evindahl/punchcard/internal/ratelimit"
	"github.com/evindahl/punchcard/internal/stats"
	"github.com/evindahl/punchcard/internal/team"
	"github.com/evindahl/punchcard/internal/ticket"
	"github.com/evindahl/punchcard/internal/tracking"
	"github.com/evindahl/punchcard/internal/user"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RouterDeps holds all dependencies for the API router.
type RouterDeps struct {
	Users          *user.Store
	Sessions       auth.SessionLookup
	Teams          *team.Store
	Projects       *project.Store
	Tickets        *ticket.Store
	Tracking       *tracking.Service
	TrackingStore  *tracking.Store
	Stats          *stats.Service
	WorkLogs       stats.WorkLogSource
	Limiter        *ratelimit.Limiter
	Metrics        *metrics.Metrics
	DBPool         *pgxpool.Pool
	AllowedOrigins []string
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(deps.AllowedOrigins))
	r.Use(slogRequestLogger)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	// Handlers.
	authH := newAuthHandler(deps.Users)
	sessionsH := newWorkSessionsHandler(deps.Tracking, deps.TrackingStore, deps.Metrics)
	ticketsH := newTicketsHandler(deps.Tickets, deps.Tracking, deps.Metrics)
	teamsH := newTeamsHandler(deps.Teams, deps.Projects, deps.Tickets)
	projectsH := newProjectsHandler(deps.Projects, deps.Teams, deps.Tickets)
	statsH := newStatsHandler(deps.Stats, deps.WorkLogs)

	// Health check.
	r.Get("/health", healthHandler(deps.DBPool))

	// Well-known manifest.
	r.Get("/.well-known/punchcard.json", WellKnownHandler)

	// Metrics summary.
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler())
	}

	// Public auth routes.
	r.Post("/api/v1/auth/register", authH.Register)
	r.Post("/api/v1/auth/login", authH.Login)
	r.Post("/api/v1/auth/logout", authH.Logout)

	// Session-authed routes.
	r.Route("/api/v1", func(ar chi.Router) {
		ar.Use(auth.SessionMiddleware(deps.Sessions))
		if deps.Limiter != nil {
			if deps.Metrics != nil {
				ar.Use(ratelimit.Middleware(deps.Limiter, func() {
					deps.Metrics.IncRateLimitRejection("user")
				}))
			} else {
				ar.Use(ratelimit.Middleware(deps.Limiter))
			}
		}

		ar.Get("/auth/me", authH.Me)

		// Work sessions (clocking).
		ar.Get("/work-sessions", sessionsH.List)
		ar.Get("/work-sessions/active", sessionsH.Active)
		ar.Post("/work-sessions/clock-in", sessionsH.ClockIn)
		ar.Post("/work-sessions/clock-out", sessionsH.ClockOut)

		// Work logs and statistics.
		ar.Get("/work-logs", statsH.ListWorkLogs)
		ar.Get("/statistics", statsH.GetStatistics)

		// Teams.
		ar.Get("/teams", teamsH.List)
		ar.Post("/teams", teamsH.Create)
		ar.Post("/teams/join", teamsH.Join)
		ar.Get("/teams/{id}", teamsH.Get)
		ar.Get("/teams/{id}/members", teamsH.Members)
		ar.Get("/teams/{id}/projects", teamsH.ListProjects)
		ar.Post("/teams/{id}/projects", teamsH.CreateProject)
		ar.Get("/teams/{id}/tickets", teamsH.ListTickets)

		// Projects.
		ar.Get("/projects/{id}", projectsH.Get)
		ar.Put("/projects/{id}", projectsH.Update)
		ar.Delete("/projects/{id}", projectsH.Delete)
		ar.Get("/projects/{id}/members", projectsH.Members)

		// Tickets.
		ar.Post("/tickets", ticketsH.Create)
		ar.Get("/tickets/{id}", ticketsH.Get)
		ar.Put("/tickets/{id}", ticketsH.Update)
		ar.Post("/tickets/{id}/start", ticketsH.Start)
		ar.Post("/tickets/{id}/pause", ticketsH.Pause)
	})

	return r
}

// healthHandler reports server and database health.
func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "degraded",
					"database": "unreachable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "connected",
		})
	}
}

// slogRequestLogger is a simple structured logging middleware using slog.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", ww.BytesWritten(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// metricsMiddleware records per-request Prometheus metrics using the chi
// route pattern as the path label to keep cardinality bounded.
func metricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := chi.RouteContext(r.Context()).RoutePattern()
			if pattern == "" {
				pattern = "unmatched"
			}
			m.ObserveHTTPRequest(
				r.Method,
				pattern,
				ww.Status(),
				time.Since(start).Seconds(),
				r.ContentLength,
				int64(ww.BytesWritten()),
			)
		})
	}
}
