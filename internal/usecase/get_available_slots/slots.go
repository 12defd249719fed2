package get_available_slots

import (
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
)

// generateSlots генерирует все слоты дня от открытия до закрытия с шагом,
// равным длительности услуги. Слот, не помещающийся до закрытия целиком,
// не генерируется.
func generateSlots(hours domain.WorkingHours, durationMinutes int, day time.Time) ([]Slot, error) {
	slots := make([]Slot, 0)

	current := hours.OpenTime
	for current.IsBefore(hours.CloseTime) {
		slotEnd, err := current.AddMinutes(durationMinutes)
		if err != nil {
			return nil, err
		}
		// AddMinutes заворачивает через полночь: завернувшийся конец
		// становится "раньше" начала и отсекается проверкой ниже
		if slotEnd.IsAfter(hours.CloseTime) || slotEnd.IsBefore(current) || slotEnd == current {
			break
		}

		startsAt, err := current.At(day)
		if err != nil {
			return nil, err
		}

		slots = append(slots, Slot{
			StartTime:       current,
			StartsAt:        startsAt,
			DurationMinutes: durationMinutes,
			Available:       true,
		})

		if slotEnd == hours.CloseTime {
			break
		}
		current = slotEnd
	}

	return slots, nil
}

// filterByMinStart отбрасывает слоты, начинающиеся раньше minStart.
// Используется для отсечения прошедших слотов и слотов внутри
// минимального окна записи.
func filterByMinStart(slots []Slot, minStart time.Time) []Slot {
	filtered := make([]Slot, 0, len(slots))
	for _, slot := range slots {
		if !slot.StartsAt.Before(minStart) {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// markOccupied помечает занятыми слоты, пересекающиеся с активными записями.
// Граничащие интервалы пересечением не считаются: запись, заканчивающаяся
// ровно в начале слота, слот не занимает.
func markOccupied(slots []Slot, appointments []*domain.Appointment) []Slot {
	for i := range slots {
		slotStart := slots[i].StartsAt
		slotEnd := slotStart.Add(time.Duration(slots[i].DurationMinutes) * time.Minute)

		for _, ap := range appointments {
			if !ap.IsActive() {
				continue
			}
			if ap.StartsAt.Before(slotEnd) && ap.EndsAt().After(slotStart) {
				slots[i].Available = false
				break
			}
		}
	}
	return slots
}

// dayBounds возвращает границы суток даты в указанной локации
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня в локации магазина
func isDateInPast(date, now time.Time, loc *time.Location) bool {
	localNow := now.In(loc)
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	nowOnly := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)
	return dateOnly.Before(nowOnly)
}
