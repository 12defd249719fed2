package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	startsAt := time.Date(2025, time.June, 10, 14, 0, 0, 0, time.UTC)
	before := startsAt.Add(-time.Hour)
	after := startsAt.Add(time.Hour)

	tests := []struct {
		name   string
		from   AppointmentStatus
		to     AppointmentStatus
		now    time.Time
		wantOK bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, before, true},
		{"pending to cancelled", StatusPending, StatusCancelled, before, true},
		{"pending to completed", StatusPending, StatusCompleted, before, false},
		{"pending to no_show", StatusPending, StatusNoShow, after, false},

		{"confirmed to completed", StatusConfirmed, StatusCompleted, after, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, before, true},
		{"confirmed to pending", StatusConfirmed, StatusPending, before, false},
		{"confirmed to no_show after start", StatusConfirmed, StatusNoShow, after, true},
		{"confirmed to no_show before start", StatusConfirmed, StatusNoShow, before, false},

		{"cancelled is terminal", StatusCancelled, StatusPending, after, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, after, false},
		{"no_show is terminal", StatusNoShow, StatusConfirmed, after, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from, StartsAt: startsAt}
			assert.Equal(t, tt.wantOK, a.CanTransitionTo(tt.to, tt.now))
		})
	}
}

func TestAppointment_TerminalStatusesPermitNothing(t *testing.T) {
	all := []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}
	terminals := []AppointmentStatus{StatusCancelled, StatusCompleted, StatusNoShow}

	now := time.Now()
	for _, from := range terminals {
		a := &Appointment{Status: from, StartsAt: now.Add(-time.Hour)}
		assert.True(t, a.IsTerminal())
		for _, to := range all {
			assert.False(t, a.CanTransitionTo(to, now), "%s -> %s", from, to)
		}
	}
}

func TestAppointment_SlotOwnership(t *testing.T) {
	active := []AppointmentStatus{StatusPending, StatusConfirmed}
	released := []AppointmentStatus{StatusCompleted, StatusCancelled, StatusNoShow}

	for _, s := range active {
		a := &Appointment{Status: s}
		assert.True(t, a.IsActive(), s)
		assert.True(t, a.CanBeCancelled(), s)
		assert.True(t, a.CanBeRescheduled(), s)
	}
	for _, s := range released {
		a := &Appointment{Status: s}
		assert.False(t, a.IsActive(), s)
		assert.False(t, a.CanBeCancelled(), s)
		assert.False(t, a.CanBeRescheduled(), s)
	}
}

func TestAppointment_EndsAt(t *testing.T) {
	a := &Appointment{
		StartsAt:        time.Date(2025, time.June, 10, 14, 0, 0, 0, time.UTC),
		DurationMinutes: 45,
	}
	assert.Equal(t, time.Date(2025, time.June, 10, 14, 45, 0, 0, time.UTC), a.EndsAt())
}

func TestValidStatus(t *testing.T) {
	for _, s := range []AppointmentStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
}
