package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/onboarding/internal/dto"
	"github.com/GregMSThompson/onboarding/internal/response"
)

type accountService interface {
	ValidateAccount(ctx context.Context, bankCode, accountNumber string) (string, error)
}

type accountHandlers struct {
	ResponseHandler response.ResponseHandler
	AccountSvc      accountService
}

func NewAccountHandlers(deps *Deps) *accountHandlers {
	return &accountHandlers{
		ResponseHandler: deps.ResponseHandler,
		AccountSvc:      deps.AccountSvc,
	}
}

func (h *accountHandlers) AccountRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ValidateAccount)
	return r
}

func (h *accountHandlers) ValidateAccount(w http.ResponseWriter, r *http.Request) {
	var req dto.AccountValidationRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	name, err := h.AccountSvc.ValidateAccount(r.Context(), req.BankCode, req.AccountNumber)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "Account validated successfully",
		dto.AccountValidationResponse{AccountName: name})
}
