package update_store_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/stores"
	"github.com/avmos/SB-AppointmentService/internal/service/stores/models"
)

const (
	msgInvalidStoreID     = "некорректный ID магазина"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "магазин не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные конфигурации"
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

// Handle PUT /api/v1/stores/{storeId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /stores/{id}/config - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	var req models.UpdateStoreConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /stores/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateConfig(r.Context(), storeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, stores.ErrStoreNotFound):
			h.logger.Warn("PUT /stores/{id}/config - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, stores.ErrAccessDenied):
			h.logger.Warn("PUT /stores/{id}/config - Access denied: store_id=%d", storeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, stores.ErrInvalidInput):
			h.logger.Warn("PUT /stores/{id}/config - Invalid data: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidData)

		default:
			h.logger.Error("PUT /stores/{id}/config - Failed to update config: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /stores/{id}/config - Config updated successfully: store_id=%d", storeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
