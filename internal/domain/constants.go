package domain

import "errors"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinServiceDurationMinutes = 5
	MaxServiceDurationMinutes = 480 // 8 hours

	MinAdvanceHoursLimit    = 0
	MaxAdvanceHoursLimit    = 168 // 1 week
	MaxAdvanceBookingDays   = 365 // 1 year
	MaxNotesLength          = 500
	MaxCancelReasonLength   = 500
	MaxClientNameLength     = 200
	MaxServiceNameLength    = 200
	MaxCouponCodeLength     = 64
)

// Invariant violation errors shared by the domain entities
var (
	ErrWorkingHoursRange = errors.New("domain: working hours open time must be before close time")
	ErrServiceName       = errors.New("domain: service name is required")
	ErrServiceDuration   = errors.New("domain: service duration out of range")
	ErrServicePrice      = errors.New("domain: service price must be non-negative")
	ErrCouponCode        = errors.New("domain: coupon code is required")
	ErrCouponType        = errors.New("domain: unknown coupon type")
	ErrCouponValue       = errors.New("domain: coupon value out of range")
	ErrCouponWindow      = errors.New("domain: coupon end date must be after start date")
)

// InactiveStatuses список статусов, не удерживающих слот.
// Используется при подсчете конфликтов.
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// ActiveStatuses список статусов, удерживающих слот
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
