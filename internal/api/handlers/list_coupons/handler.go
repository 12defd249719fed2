package list_coupons

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/coupons"
)

const (
	msgInvalidStoreID = "некорректный ID магазина"
	msgStoreNotFound  = "магазин не найден"
	msgForbidden      = "доступ запрещен"
)

type Handler struct {
	service CouponService
	logger  Logger
}

func NewHandler(service CouponService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/stores/{storeId}/coupons
// Купоны не публичны: список доступен только вызывающим с областью магазина.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /stores/{id}/coupons - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	result, err := h.service.ListByStore(r.Context(), storeID)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrStoreNotFound):
			h.logger.Warn("GET /stores/{id}/coupons - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, coupons.ErrAccessDenied):
			h.logger.Warn("GET /stores/{id}/coupons - Access denied: store_id=%d", storeID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /stores/{id}/coupons - Failed to list coupons: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /stores/{id}/coupons - Coupons retrieved successfully: store_id=%d, count=%d",
		storeID, len(result.Coupons))
	handlers.RespondJSON(w, http.StatusOK, result)
}
