package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.NewStartsAt.IsZero() {
		return fmt.Errorf("%w: newStartsAt is required", ErrInvalidInput)
	}

	return nil
}

// validateStartTime проверяет новый момент начала против временных политик
// магазина. Перенос проходит все те же проверки, что и создание: прошлое,
// минимальное окно, максимальный горизонт.
func validateStartTime(startsAt, now time.Time, store *domain.Store) error {
	if !startsAt.After(now) {
		return ErrInvalidDate
	}

	if store.MinAdvanceHours > 0 {
		minStart := now.Add(time.Duration(store.MinAdvanceHours) * time.Hour)
		if startsAt.Before(minStart) {
			return fmt.Errorf("%w: must book at least %d hours in advance", ErrInsufficientAdvanceTime, store.MinAdvanceHours)
		}
	}

	if store.AdvanceBookingDays > 0 {
		maxStart := now.AddDate(0, 0, store.AdvanceBookingDays)
		if startsAt.After(maxStart) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrExcessiveAdvanceTime, store.AdvanceBookingDays)
		}
	}

	return nil
}

// validateWorkingHours проверяет, что перенесенная запись целиком помещается
// в рабочие часы магазина в его часовом поясе
func validateWorkingHours(startsAt time.Time, durationMinutes int, store *domain.Store) error {
	localStart := startsAt.In(store.Location())

	hours := store.HoursFor(localStart.Weekday())
	if !hours.Active {
		return fmt.Errorf("%w: store is closed on %s", ErrOutsideWorkingHours, localStart.Weekday())
	}

	startMinutes, err := types.NewTimeString(localStart).Minutes()
	if err != nil {
		return fmt.Errorf("%w: failed to resolve start time: %v", ErrInternal, err)
	}
	endMinutes := startMinutes + durationMinutes

	openMinutes, err := hours.OpenTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: malformed open time %q: %v", ErrInternal, hours.OpenTime, err)
	}
	closeMinutes, err := hours.CloseTime.Minutes()
	if err != nil {
		return fmt.Errorf("%w: malformed close time %q: %v", ErrInternal, hours.CloseTime, err)
	}

	if startMinutes < openMinutes || endMinutes > closeMinutes {
		return fmt.Errorf("%w: appointment must fit between %s and %s", ErrOutsideWorkingHours, hours.OpenTime, hours.CloseTime)
	}

	return nil
}
