package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/middleware"
	"github.com/GregMSThompson/onboarding/internal/response"
)

type registrationService interface {
	Register(ctx context.Context, provider string, form dto.RegistrationFormData) (dto.RegistrationResponse, error)
	GetRegistration(ctx context.Context, registrationID string) (dto.RegistrationSummary, error)
}

type registrationHandlers struct {
	ResponseHandler response.ResponseHandler
	RegistrationSvc registrationService
}

func NewRegistrationHandlers(deps *Deps) *registrationHandlers {
	return &registrationHandlers{
		ResponseHandler: deps.ResponseHandler,
		RegistrationSvc: deps.RegistrationSvc,
	}
}

func (h *registrationHandlers) RegistrationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{provider}-register", h.Register)
	return r
}

// MeRoutes must be mounted behind the bearer auth middleware.
func (h *registrationHandlers) MeRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetMine)
	return r
}

func (h *registrationHandlers) Register(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	var form dto.RegistrationFormData
	if err := decodeJSON(r, &form); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	resp, err := h.RegistrationSvc.Register(r.Context(), provider, form)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "Registration successful", resp)
}

func (h *registrationHandlers) GetMine(w http.ResponseWriter, r *http.Request) {
	id := middleware.RegistrationID(r.Context())

	summary, err := h.RegistrationSvc.GetRegistration(r.Context(), id)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "Registration fetched successfully", summary)
}
