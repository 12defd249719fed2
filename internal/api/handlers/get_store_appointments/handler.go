package get_store_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidStoreID = "некорректный ID магазина"
	msgInvalidParams  = "некорректные параметры запроса"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/appointments
// Query params: serviceId, startDate, endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/appointments - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		storeID,
		query.Get("serviceId"),
		query.Get("startDate"),
		query.Get("endDate"),
		query.Get("status"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidParams)
		return
	}

	result, err := h.service.GetStoreAppointments(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /stores/{id}/appointments - Access denied: store_id=%d", storeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /stores/{id}/appointments - Invalid filter: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidParams)

		default:
			h.logger.Error("GET /stores/{id}/appointments - Failed to get appointments: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stores/{id}/appointments - Appointments retrieved successfully: store_id=%d, count=%d",
		storeID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
