package create_coupon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/coupons"
	"github.com/avmos/SB-AppointmentService/internal/service/coupons/models"
)

const (
	msgInvalidStoreID     = "некорректный ID магазина"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgStoreNotFound      = "магазин не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные купона"
	msgDuplicateCode      = "купон с таким кодом уже существует"
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

// Handle POST /api/v1/stores/{storeId}/coupons
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /stores/{id}/coupons - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	var req models.CreateCouponRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stores/{id}/coupons - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), storeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrStoreNotFound):
			h.logger.Warn("POST /stores/{id}/coupons - Store not found: store_id=%d", storeID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, coupons.ErrAccessDenied):
			h.logger.Warn("POST /stores/{id}/coupons - Access denied: store_id=%d", storeID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, coupons.ErrDuplicateCode):
			h.logger.Warn("POST /stores/{id}/coupons - Duplicate code: store_id=%d, code=%s", storeID, req.Code)
			handlers.RespondConflict(w, handlers.CodeInvalidInput, msgDuplicateCode)

		case errors.Is(err, coupons.ErrInvalidInput):
			h.logger.Warn("POST /stores/{id}/coupons - Invalid data: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidData)

		default:
			h.logger.Error("POST /stores/{id}/coupons - Failed to create coupon: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stores/{id}/coupons - Coupon created successfully: coupon_id=%d, store_id=%d, code=%s",
		result.ID, storeID, result.Code)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
