package validate_coupon

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
	msgInvalidStoreID        = "некорректный ID магазина"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgNotFound              = "купон не найден"
	msgCouponNotYetActive    = "купон еще не активен"
	msgCouponExpired         = "срок действия купона истек"
	msgMinAmountNotMet       = "сумма заказа меньше минимальной для купона"
	msgUsageLimitReached     = "лимит использований купона исчерпан"
	msgUserUsageLimitReached = "лимит использований купона для клиента исчерпан"
	msgInvalidData           = "некорректные данные для проверки купона"
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

// Handle POST /api/v1/stores/{storeId}/coupons/validate
// Предварительная проверка купона. Лимит не расходуется, результат
// не резервирует скидку.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeIDStr := vars["storeId"]

	storeID, err := strconv.ParseInt(storeIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /stores/{id}/coupons/validate - Invalid store ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStoreID)
		return
	}

	var req models.ValidateCouponRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /stores/{id}/coupons/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Validate(r.Context(), storeID, &req)
	if err != nil {
		switch {
		case errors.Is(err, coupons.ErrCouponNotFound):
			h.logger.Warn("POST /stores/{id}/coupons/validate - Coupon not found: store_id=%d, code=%s",
				storeID, req.Code)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, coupons.ErrCouponNotYetActive):
			h.logger.Warn("POST /stores/{id}/coupons/validate - Coupon not yet active: store_id=%d, code=%s",
				storeID, req.Code)
			handlers.RespondBadRequest(w, handlers.CodeCouponNotYetActive, msgCouponNotYetActive)

		case errors.Is(err, coupons.ErrCouponExpired):
			h.logger.Warn("POST /stores/{id}/coupons/validate - Coupon expired: store_id=%d, code=%s",
				storeID, req.Code)
			handlers.RespondBadRequest(w, handlers.CodeCouponExpired, msgCouponExpired)

		case errors.Is(err, coupons.ErrMinAmountNotMet):
			h.logger.Warn("POST /stores/{id}/coupons/validate - Min amount not met: store_id=%d, code=%s",
				storeID, req.Code)
			handlers.RespondBadRequest(w, handlers.CodeMinAmountNotMet, msgMinAmountNotMet)

		case errors.Is(err, coupons.ErrUsageLimitReached):
			h.logger.Warn("POST /stores/{id}/coupons/validate - Usage limit reached: store_id=%d, code=%s",
				storeID, req.Code)
			handlers.RespondBadRequest(w, handlers.CodeUsageLimitReached, msgUsageLimitReached)

		case errors.Is(err, coupons.ErrUserUsageLimitReached):
			h.logger.Warn("POST /stores/{id}/coupons/validate - User usage limit reached: store_id=%d, code=%s",
				storeID, req.Code)
			handlers.RespondBadRequest(w, handlers.CodeUserUsageLimitReached, msgUserUsageLimitReached)

		case errors.Is(err, coupons.ErrInvalidInput):
			h.logger.Warn("POST /stores/{id}/coupons/validate - Invalid data: store_id=%d, error=%v", storeID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidData)

		default:
			h.logger.Error("POST /stores/{id}/coupons/validate - Failed to validate coupon: store_id=%d, error=%v",
				storeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /stores/{id}/coupons/validate - Coupon validated successfully: store_id=%d, code=%s, discount=%.2f",
		storeID, req.Code, result.Discount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
