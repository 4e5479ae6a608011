package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/emberline/storefront/internal/platform/httpx"
	"github.com/emberline/storefront/internal/platform/observability"
)

const (
	defaultAPIPrefix = "/api/v1"
	defaultTimeout   = 30 * time.Second
)

// RouterConfig groups the collaborators mounted on the router.
type RouterConfig struct {
	Logger  *zap.Logger
	Home    *HomeHandlers
	Health  *HealthHandlers
	Timeout time.Duration
}

// NewRouter constructs the chi router with shared middleware and the API route groups.
func NewRouter(cfg RouterConfig) chi.Router {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cfg.Health == nil {
		cfg.Health = NewHealthHandlers()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.InjectLoggerMiddleware(cfg.Logger))
	r.Use(observability.TraceMiddleware())
	r.Use(observability.RequestLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(timeout))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.Health.Healthz)

	r.Route(defaultAPIPrefix, func(api chi.Router) {
		if cfg.Home != nil {
			cfg.Home.Routes(api)
		}
	})

	return r
}
