package create_appointment

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartsAt.IsZero() {
		return fmt.Errorf("%w: startsAt is required", ErrInvalidInput)
	}

	if req.ClientName == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}
	if len(req.ClientName) > domain.MaxClientNameLength {
		return fmt.Errorf("%w: clientName is too long", ErrInvalidInput)
	}

	if req.ClientEmail == "" {
		return fmt.Errorf("%w: clientEmail is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.ClientEmail); err != nil {
		return fmt.Errorf("%w: invalid clientEmail format: %v", ErrInvalidInput, err)
	}

	if req.CouponCode != nil {
		if domain.NormalizeCouponCode(*req.CouponCode) == "" {
			return fmt.Errorf("%w: couponCode is empty", ErrInvalidInput)
		}
		if len(*req.CouponCode) > domain.MaxCouponCodeLength {
			return fmt.Errorf("%w: couponCode is too long", ErrInvalidInput)
		}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateStartTime проверяет момент начала против временных политик магазина.
// Порядок проверок фиксирован: прошлое, минимальное окно, максимальный горизонт.
func validateStartTime(startsAt, now time.Time, store *domain.Store) error {
	// 1. Начало не в прошлом
	if !startsAt.After(now) {
		return ErrInvalidDate
	}

	// 2. Минимальное окно записи
	if store.MinAdvanceHours > 0 {
		minStart := now.Add(time.Duration(store.MinAdvanceHours) * time.Hour)
		if startsAt.Before(minStart) {
			return fmt.Errorf("%w: must book at least %d hours in advance", ErrInsufficientAdvanceTime, store.MinAdvanceHours)
		}
	}

	// 3. Максимальный горизонт. AdvanceBookingDays = 0 означает без ограничений.
	if store.AdvanceBookingDays > 0 {
		maxStart := now.AddDate(0, 0, store.AdvanceBookingDays)
		if startsAt.After(maxStart) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrExcessiveAdvanceTime, store.AdvanceBookingDays)
		}
	}

	return nil
}

// validateWorkingHours проверяет, что запись целиком помещается в рабочие часы
// магазина в его часовом поясе. День без расписания считается выходным,
// запись через полночь не допускается.
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

// checkCouponWindow транслирует состояние окна купона в ошибки usecase
func checkCouponWindow(coupon *domain.Coupon, now time.Time) error {
	switch coupon.WindowAt(now) {
	case domain.WindowNotYetActive:
		return ErrCouponNotYetActive
	case domain.WindowExpired:
		return ErrCouponExpired
	}
	return nil
}
