package delete_service

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/services"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgNotFound         = "услуга не найдена"
	msgForbidden        = "доступ запрещен"
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

// Handle DELETE /api/v1/stores/{storeId}/services/{serviceId}
// Услуга с историей записей деактивируется вместо удаления.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	serviceIDStr := vars["serviceId"]

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /stores/{id}/services/{id} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidServiceID)
		return
	}

	result, err := h.service.Delete(r.Context(), serviceID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrServiceNotFound):
			h.logger.Warn("DELETE /stores/{id}/services/{id} - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, services.ErrAccessDenied):
			h.logger.Warn("DELETE /stores/{id}/services/{id} - Access denied: service_id=%d", serviceID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /stores/{id}/services/{id} - Failed to delete service: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /stores/{id}/services/{id} - Service deleted: service_id=%d, deleted=%t, deactivated=%t",
		serviceID, result.Deleted, result.Deactivated)
	handlers.RespondJSON(w, http.StatusOK, result)
}
