package domain

import "time"

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment represents a booked time slot against a service
type Appointment struct {
	ID        int64
	StoreID   int64 // denormalized from the service for scope filtering
	ServiceID int64

	StartsAt        time.Time
	DurationMinutes int
	Status          AppointmentStatus

	ClientName  string
	ClientEmail string
	ClientPhone string

	TotalPrice float64
	CouponID   *int64
	Notes      *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt returns the instant the appointment ends
func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive returns true if the appointment holds its slot
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// IsTerminal returns true if no further transition is permitted
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCancelled || a.Status == StatusCompleted || a.Status == StatusNoShow
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the appointment date can be swapped in place
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// CanTransitionTo validates a lifecycle transition. Transitions are append-only:
//
//	pending   -> confirmed | cancelled
//	confirmed -> completed | cancelled | no_show
//
// no_show is a post-hoc mark and is only legal after the appointment instant
// has passed. Terminal statuses (cancelled, completed, no_show) permit nothing.
func (a *Appointment) CanTransitionTo(target AppointmentStatus, now time.Time) bool {
	switch a.Status {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		switch target {
		case StatusCompleted, StatusCancelled:
			return true
		case StatusNoShow:
			return now.After(a.StartsAt)
		}
	}
	return false
}

// ValidStatus reports whether s is a known appointment status
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// StoreAppointmentsFilter фильтр для получения записей магазина
type StoreAppointmentsFilter struct {
	StoreID         int64
	ServiceID       *int64
	StartDate       *time.Time
	EndDate         *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool
}
