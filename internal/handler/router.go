package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	xlog "almostcircle/internal/log"
	"almostcircle/internal/metrics"
)

// RouterConfig wires handlers and middleware options into the router
type RouterConfig struct {
	Shapes *ShapeHandler
	States *StateHandler
	Events http.Handler // SSE hub, optional
	DB     Pinger       // health check target, optional

	// RateLimit is the per-IP request budget per minute on /api; 0 disables it
	RateLimit      int
	AllowedOrigins []string
}

// NewRouter builds the HTTP router with the middleware stack applied
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(xlog.RequestID)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(Metrics())
	r.Use(xlog.Middleware())

	r.Get("/healthz", Health(cfg.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	if cfg.Events != nil {
		r.Method(http.MethodGet, "/events", cfg.Events)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit, time.Minute))
		}
		if cfg.Shapes != nil {
			cfg.Shapes.Routes(r)
		}
		if cfg.States != nil {
			cfg.States.Routes(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "Not found", r.URL.Path, http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "Method not allowed", r.Method, http.StatusMethodNotAllowed)
	})

	return r
}
