package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	getAvailableSlots "github.com/avmos/SB-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgInvalidStoreID   = "некорректный ID магазина"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingDate      = "дата обязательна"
	msgInvalidDateParam = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgStoreNotFound    = "магазин не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата уже в прошлом"
	msgDateTooFar       = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/services/{serviceId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	storeIDStr := vars["storeId"]
	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	serviceIDStr := vars["serviceId"]
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(serviceID, dateStr)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidDateParam)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStoreNotFound):
			h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Date in the past: date=%s", dateStr)
			handlers.RespondBadRequest(w, handlers.CodeInvalidDate, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Date too far in future: date=%s", dateStr)
			handlers.RespondBadRequest(w, handlers.CodeExcessiveAdvanceTime, msgDateTooFar)

		default:
			h.logger.Error("GET /stores/{id}/services/{id}/available-slots - Failed to get slots: store_id=%d, service_id=%d, error=%v",
				storeID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Услуга должна принадлежать магазину из URL
	if result.StoreID != storeID {
		h.logger.Warn("GET /stores/{id}/services/{id}/available-slots - Service belongs to another store: store_id=%d, service_id=%d, actual_store_id=%d",
			storeID, serviceID, result.StoreID)
		handlers.RespondNotFound(w, msgServiceNotFound)
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /stores/{id}/services/{id}/available-slots - Slots retrieved successfully: store_id=%d, service_id=%d, slots_count=%d",
		storeID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
