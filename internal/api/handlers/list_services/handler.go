package list_services

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
)

const (
	msgInvalidStoreID = "некорректный ID магазина"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/services
// Публичный каталог: гости видят только активные услуги.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/services - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	result, err := h.service.ListByStore(r.Context(), storeID)
	if err != nil {
		h.logger.Error("GET /stores/{id}/services - Failed to list services: store_id=%d, error=%v",
			storeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /stores/{id}/services - Services retrieved successfully: store_id=%d, count=%d",
		storeID, len(result.Services))
	handlers.RespondJSON(w, http.StatusOK, result)
}
