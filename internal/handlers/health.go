package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/GregMSThompson/onboarding/internal/response"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthHandlers struct {
	ResponseHandler response.ResponseHandler
	Checks          map[string]HealthCheck
}

func NewHealthHandlers(deps *Deps) *healthHandlers {
	return &healthHandlers{
		ResponseHandler: deps.ResponseHandler,
		Checks:          deps.HealthChecks,
	}
}

func (h *healthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed", "dependency", name, "error", err)
			h.ResponseHandler.WriteError(w, r, http.StatusServiceUnavailable, name+" unavailable")
			return
		}
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "OK", map[string]string{"status": "ok"})
}
