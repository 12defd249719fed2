package get_store_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/stores"
)

const (
	msgInvalidStoreID = "некорректный ID магазина"
	msgNotFound       = "магазин не найден"
)

type Handler struct {
	service StoreService
	logger  Logger
}

func NewHandler(service StoreService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/config
// Публичный endpoint: расписание и политики нужны форме бронирования.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/config - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	result, err := h.service.GetConfig(r.Context(), storeID)
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrStoreNotFound):
			h.logger.Warn("GET /stores/{id}/config - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /stores/{id}/config - Failed to get config: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stores/{id}/config - Config retrieved successfully: store_id=%d", storeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
