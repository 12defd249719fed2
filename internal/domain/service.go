package domain

import "time"

// Service represents a bookable service in a store's catalog
type Service struct {
	ID      int64
	StoreID int64 // owning store, immutable after creation

	Name            string
	DurationMinutes int
	Price           float64
	Active          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the catalog invariants
func (s *Service) Validate() error {
	if s.Name == "" {
		return ErrServiceName
	}
	if s.DurationMinutes < MinServiceDurationMinutes || s.DurationMinutes > MaxServiceDurationMinutes {
		return ErrServiceDuration
	}
	if s.Price < 0 {
		return ErrServicePrice
	}
	return nil
}
