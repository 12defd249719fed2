package domain

import (
	"time"

	"github.com/avmos/SB-AppointmentService/pkg/types"
)

// Store represents a bookable business (salon, workshop, clinic)
type Store struct {
	ID        int64
	Name      string
	CompanyID *int64 // set for multi-store tenants
	Timezone  string

	// Advance window policies
	MinAdvanceHours    int // shortest allowed lead time
	AdvanceBookingDays int // longest allowed lead time, 0 = unlimited

	WorkingHours []WorkingHours

	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkingHours describes one weekday entry of the store's weekly table
type WorkingHours struct {
	Weekday   time.Weekday
	OpenTime  types.TimeString
	CloseTime types.TimeString
	Active    bool
}

// Validate checks the open < close invariant for an active entry
func (w WorkingHours) Validate() error {
	if !w.Active {
		return nil
	}
	if err := w.OpenTime.Validate(); err != nil {
		return err
	}
	if err := w.CloseTime.Validate(); err != nil {
		return err
	}
	if !w.OpenTime.IsBefore(w.CloseTime) {
		return ErrWorkingHoursRange
	}
	return nil
}

// HoursFor returns the working-hours entry for the given weekday.
// A weekday with no entry is treated as inactive.
func (s *Store) HoursFor(weekday time.Weekday) WorkingHours {
	for _, wh := range s.WorkingHours {
		if wh.Weekday == weekday {
			return wh
		}
	}
	return WorkingHours{Weekday: weekday, Active: false}
}

// Location resolves the store's configured timezone, falling back to UTC
func (s *Store) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
