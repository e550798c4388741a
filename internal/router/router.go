package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/onboarding/internal/handlers"
	"github.com/GregMSThompson/onboarding/internal/middleware"
)

type Middleware struct {
	Logger func(http.Handler) http.Handler
	Auth   func(http.Handler) http.Handler
}

// NewRouter wires every onboarding endpoint. metrics may be nil to leave
// /metrics unmounted.
func NewRouter(deps *handlers.Deps, mw Middleware, metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if mw.Logger == nil {
		mw.Logger = middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware
	}
	r.Use(mw.Logger)
	r.Use(chimiddleware.Recoverer)

	dh := handlers.NewDirectoryHandlers(deps)
	ah := handlers.NewAccountHandlers(deps)
	rh := handlers.NewRegistrationHandlers(deps)
	hh := handlers.NewHealthHandlers(deps)

	r.Get("/healthz", hh.Healthz)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	r.Mount("/validate-account", ah.AccountRoutes())
	r.Mount("/route-pay", rh.RegistrationRoutes())
	r.With(mw.Auth).Mount("/registrations/me", rh.MeRoutes())
	r.Mount("/", dh.DirectoryRoutes())
	return r
}
