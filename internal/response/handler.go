package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/GregMSThompson/onboarding/pkg/logger"
)

type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, message string, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

// Envelope is the uniform {success, message, data} body. Data is always
// present and serialises as null on failures.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type responseHandler struct {
	Log *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	return &responseHandler{Log: log}
}

func (h *responseHandler) write(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil {
		// headers are gone; logging is all that is left
		log := h.Log
		if r != nil {
			log = logger.FromContext(r.Context())
		}
		log.Error("failed to encode response", "error", err, "status", status)
	}
}
