package create_appointment

import (
	"errors"
	"net/http"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/auth"
	createAppointment "github.com/avmos/SB-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidStartsAt        = "некорректный формат времени начала, ожидается RFC 3339"
	msgServiceNotFound        = "услуга не найдена"
	msgStoreNotFound          = "магазин не найден"
	msgInvalidDate            = "время начала записи уже в прошлом"
	msgInsufficientAdvance    = "до начала записи осталось слишком мало времени"
	msgExcessiveAdvance       = "дата записи слишком далеко в будущем"
	msgOutsideWorkingHours    = "запись выходит за рамки рабочих часов"
	msgSlotNotAvailable       = "выбранный временной слот недоступен"
	msgCouponNotFound         = "купон не найден"
	msgCouponNotYetActive     = "купон еще не активен"
	msgCouponExpired          = "срок действия купона истек"
	msgMinAmountNotMet        = "сумма заказа меньше минимальной для купона"
	msgUsageLimitReached      = "лимит использований купона исчерпан"
	msgUserUsageLimitReached  = "лимит использований купона для клиента исчерпан"
	msgInvalidAppointmentData = "некорректные данные записи"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	// Флаг confirm учитывается только для доверенных вызывающих:
	// гости и ключи без pre_confirm всегда создают pending.
	caller := auth.CallerFromContext(r.Context())
	confirm := req.Confirm && caller.Trusted()

	useCaseReq, err := req.ToUseCaseRequest(confirm)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse starts_at: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStartsAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrStoreNotFound):
			h.logger.Warn("POST /appointments - Store not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgStoreNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Start in the past: service_id=%d, starts_at=%s", req.ServiceID, req.StartsAt)
			handlers.RespondBadRequest(w, handlers.CodeInvalidDate, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrInsufficientAdvanceTime):
			h.logger.Warn("POST /appointments - Insufficient advance time: service_id=%d, starts_at=%s", req.ServiceID, req.StartsAt)
			handlers.RespondBadRequest(w, handlers.CodeInsufficientAdvanceTime, msgInsufficientAdvance)

		case errors.Is(err, createAppointment.ErrExcessiveAdvanceTime):
			h.logger.Warn("POST /appointments - Excessive advance time: service_id=%d, starts_at=%s", req.ServiceID, req.StartsAt)
			handlers.RespondBadRequest(w, handlers.CodeExcessiveAdvanceTime, msgExcessiveAdvance)

		case errors.Is(err, createAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("POST /appointments - Outside working hours: service_id=%d, starts_at=%s", req.ServiceID, req.StartsAt)
			handlers.RespondBadRequest(w, handlers.CodeOutsideWorkingHours, msgOutsideWorkingHours)

		case errors.Is(err, createAppointment.ErrSlotNotAvailable):
			h.logger.Warn("POST /appointments - Slot not available: service_id=%d, starts_at=%s", req.ServiceID, req.StartsAt)
			handlers.RespondConflict(w, handlers.CodeTimeSlotUnavailable, msgSlotNotAvailable)

		case errors.Is(err, createAppointment.ErrCouponNotFound):
			h.logger.Warn("POST /appointments - Coupon not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgCouponNotFound)

		case errors.Is(err, createAppointment.ErrCouponNotYetActive):
			h.logger.Warn("POST /appointments - Coupon not yet active: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, handlers.CodeCouponNotYetActive, msgCouponNotYetActive)

		case errors.Is(err, createAppointment.ErrCouponExpired):
			h.logger.Warn("POST /appointments - Coupon expired: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, handlers.CodeCouponExpired, msgCouponExpired)

		case errors.Is(err, createAppointment.ErrMinAmountNotMet):
			h.logger.Warn("POST /appointments - Min amount not met: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, handlers.CodeMinAmountNotMet, msgMinAmountNotMet)

		case errors.Is(err, createAppointment.ErrUsageLimitReached):
			h.logger.Warn("POST /appointments - Coupon usage limit reached: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, handlers.CodeUsageLimitReached, msgUsageLimitReached)

		case errors.Is(err, createAppointment.ErrUserUsageLimitReached):
			h.logger.Warn("POST /appointments - Coupon user usage limit reached: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, handlers.CodeUserUsageLimitReached, msgUserUsageLimitReached)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid data: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidAppointmentData)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: service_id=%d, error=%v",
				req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, service_id=%d, status=%s",
		result.ID, req.ServiceID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
