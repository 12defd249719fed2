package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	rescheduleAppointment "github.com/avmos/SB-AppointmentService/internal/usecase/reschedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartsAt      = "некорректный формат времени начала, ожидается RFC 3339"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgNotReschedulable     = "запись не может быть перенесена"
	msgInvalidDate          = "новое время начала уже в прошлом"
	msgInsufficientAdvance  = "до нового времени начала осталось слишком мало времени"
	msgExcessiveAdvance     = "новая дата слишком далеко в будущем"
	msgOutsideWorkingHours  = "запись выходит за рамки рабочих часов"
	msgSlotNotAvailable     = "выбранный временной слот недоступен"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/reschedule - Failed to parse new_starts_at: %v", err)
		handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidStartsAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleAppointment.ErrPermissionDenied):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Access denied: appointment_id=%d", appointmentID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleAppointment.ErrNotReschedulable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Not reschedulable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, handlers.CodeInvalidStateTransition, msgNotReschedulable)

		case errors.Is(err, rescheduleAppointment.ErrInvalidDate):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Start in the past: appointment_id=%d, new_starts_at=%s",
				appointmentID, req.NewStartsAt)
			handlers.RespondBadRequest(w, handlers.CodeInvalidDate, msgInvalidDate)

		case errors.Is(err, rescheduleAppointment.ErrInsufficientAdvanceTime):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Insufficient advance time: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, handlers.CodeInsufficientAdvanceTime, msgInsufficientAdvance)

		case errors.Is(err, rescheduleAppointment.ErrExcessiveAdvanceTime):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Excessive advance time: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, handlers.CodeExcessiveAdvanceTime, msgExcessiveAdvance)

		case errors.Is(err, rescheduleAppointment.ErrOutsideWorkingHours):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Outside working hours: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, handlers.CodeOutsideWorkingHours, msgOutsideWorkingHours)

		case errors.Is(err, rescheduleAppointment.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Slot not available: appointment_id=%d, new_starts_at=%s",
				appointmentID, req.NewStartsAt)
			handlers.RespondConflict(w, handlers.CodeTimeSlotUnavailable, msgSlotNotAvailable)

		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/{id}/reschedule - Invalid data: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, handlers.CodeInvalidInput, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("PATCH /appointments/{id}/reschedule - Appointment rescheduled successfully: appointment_id=%d, new_starts_at=%s",
		appointmentID, req.NewStartsAt)
	handlers.RespondJSON(w, http.StatusOK, response)
}
