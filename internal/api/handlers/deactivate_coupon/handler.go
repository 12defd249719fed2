package deactivate_coupon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/service/coupons"
)

const (
	msgInvalidCouponID = "некорректный ID купона"
	msgNotFound        = "купон не найден"
	msgForbidden       = "доступ запрещен"
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

// Handle DELETE /api/v1/stores/{storeId}/coupons/{couponId}
// Купон деактивируется, а не удаляется: история использований сохраняется.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	couponIDStr := vars["couponId"]

	couponID, err := strconv.ParseInt(couponIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /stores/{id}/coupons/{id} - Invalid coupon ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidCouponID)
		return
	}

	err = h.service.Deactivate(r.Context(), couponID)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrCouponNotFound):
			h.logger.Warn("DELETE /stores/{id}/coupons/{id} - Coupon not found: coupon_id=%d", couponID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, coupons.ErrAccessDenied):
			h.logger.Warn("DELETE /stores/{id}/coupons/{id} - Access denied: coupon_id=%d", couponID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /stores/{id}/coupons/{id} - Failed to deactivate coupon: coupon_id=%d, error=%v",
				couponID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /stores/{id}/coupons/{id} - Coupon deactivated successfully: coupon_id=%d", couponID)
	handlers.RespondJSON(w, http.StatusOK, nil)
}
