package create_service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/services"
	"github.com/avmos/SB-AppointmentService/internal/service/services/models"
)

const (
	msgInvalidStoreID     = "некорректный ID магазина"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgStoreNotFound      = "магазин не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные услуги"
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

// Handle POST /api/v1/stores/{storeId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /stores/{id}/services - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stores/{id}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), storeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStoreNotFound):
			h.logger.Warn("POST /stores/{id}/services - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, services.ErrAccessDenied):
			h.logger.Warn("POST /stores/{id}/services - Access denied: store_id=%d", storeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, services.ErrInvalidInput):
			h.logger.Warn("POST /stores/{id}/services - Invalid data: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidData)

		default:
			h.logger.Error("POST /stores/{id}/services - Failed to create service: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stores/{id}/services - Service created successfully: service_id=%d, store_id=%d",
		result.ID, storeID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
