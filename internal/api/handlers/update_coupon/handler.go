package update_coupon

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
	msgInvalidCouponID    = "некорректный ID купона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "купон не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректные данные купона"
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

// Handle PUT /api/v1/stores/{storeId}/coupons/{couponId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	couponIDStr := vars["couponId"]

	couponID, err := strconv.ParseInt(couponIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PUT /stores/{id}/coupons/{id} - Invalid coupon ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidCouponID)
		return
	}

	var req models.UpdateCouponRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /stores/{id}/coupons/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), couponID, &req)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrCouponNotFound):
			h.logger.Warn("PUT /stores/{id}/coupons/{id} - Coupon not found: coupon_id=%d", couponID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, coupons.ErrAccessDenied):
			h.logger.Warn("PUT /stores/{id}/coupons/{id} - Access denied: coupon_id=%d", couponID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, coupons.ErrInvalidInput):
			h.logger.Warn("PUT /stores/{id}/coupons/{id} - Invalid data: coupon_id=%d, error=%v", couponID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidData)

		default:
			h.logger.Error("PUT /stores/{id}/coupons/{id} - Failed to update coupon: coupon_id=%d, error=%v",
				couponID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /stores/{id}/coupons/{id} - Coupon updated successfully: coupon_id=%d", couponID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
