package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/onboarding/internal/models"
	"github.com/GregMSThompson/onboarding/internal/response"
	"github.com/GregMSThompson/onboarding/pkg/logger"
)

type directoryService interface {
	ListRegions(ctx context.Context) ([]models.Region, error)
	ListZones(ctx context.Context, regionID string) ([]models.Zone, error)
	ListBanks(ctx context.Context) ([]models.Bank, error)
}

type directoryHandlers struct {
	ResponseHandler response.ResponseHandler
	DirectorySvc    directoryService
}

func NewDirectoryHandlers(deps *Deps) *directoryHandlers {
	return &directoryHandlers{
		ResponseHandler: deps.ResponseHandler,
		DirectorySvc:    deps.DirectorySvc,
	}
}

func (h *directoryHandlers) DirectoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/regions", h.ListRegions)
	r.Get("/zones/region/{regionId}", h.ListZones)
	r.Get("/banks", h.ListBanks)
	return r
}

// Directory failures always surface as a plain 500; the cause is only logged.
func (h *directoryHandlers) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	logger.FromContext(r.Context()).Error(message, "error", err)
	h.ResponseHandler.WriteError(w, r, http.StatusInternalServerError, message)
}

func (h *directoryHandlers) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.DirectorySvc.ListRegions(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch regions", err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "Regions fetched successfully", regions)
}

func (h *directoryHandlers) ListZones(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionId")

	zones, err := h.DirectorySvc.ListZones(r.Context(), regionID)
	if err != nil {
		h.fail(w, r, "Failed to fetch zones", err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "Zones fetched successfully", zones)
}

func (h *directoryHandlers) ListBanks(w http.ResponseWriter, r *http.Request) {
	banks, err := h.DirectorySvc.ListBanks(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to fetch banks", err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, "Banks fetched successfully", banks)
}
