package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не в прошлом и не за горизонтом записи
func validateDate(date, now time.Time, advanceBookingDays int, loc *time.Location) error {
	if isDateInPast(date, now, loc) {
		return ErrInvalidDate
	}

	// AdvanceBookingDays = 0 означает без ограничений
	if advanceBookingDays == 0 {
		return nil
	}

	localNow := now.In(loc)
	maxDate := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, advanceBookingDays)

	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	if dateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only view %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
