package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrPermissionDenied возвращается, когда запись вне области видимости вызывающего
	ErrPermissionDenied = errors.New("reschedule_appointment: permission denied")

	// ErrNotReschedulable возвращается, когда запись уже в терминальном статусе
	ErrNotReschedulable = errors.New("reschedule_appointment: appointment can no longer be rescheduled")

	// ErrInvalidDate возвращается, когда новое время начала в прошлом или некорректно
	ErrInvalidDate = errors.New("reschedule_appointment: invalid start date")

	// ErrInsufficientAdvanceTime возвращается при нарушении минимального окна записи
	ErrInsufficientAdvanceTime = errors.New("reschedule_appointment: insufficient advance time")

	// ErrExcessiveAdvanceTime возвращается при превышении максимального горизонта записи
	ErrExcessiveAdvanceTime = errors.New("reschedule_appointment: date is too far in the future")

	// ErrOutsideWorkingHours возвращается, когда запись не помещается в рабочие часы
	ErrOutsideWorkingHours = errors.New("reschedule_appointment: outside working hours")

	// ErrSlotNotAvailable возвращается, когда новый слот занят другой активной записью
	ErrSlotNotAvailable = errors.New("reschedule_appointment: time slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)
