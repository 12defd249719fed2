package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/pkg/types"
)

var (
	// ErrInvalidWorkingHours возвращается при некорректном расписании
	ErrInvalidWorkingHours = errors.New("invalid working hours")
)

// DayHours расписание одного дня недели
type DayHours struct {
	Open   string `json:"open,omitempty"`  // "HH:MM"
	Close  string `json:"close,omitempty"` // "HH:MM"
	Active bool   `json:"active"`
}

// WeeklyHours недельная таблица рабочих часов магазина
type WeeklyHours struct {
	Monday    DayHours `json:"monday"`
	Tuesday   DayHours `json:"tuesday"`
	Wednesday DayHours `json:"wednesday"`
	Thursday  DayHours `json:"thursday"`
	Friday    DayHours `json:"friday"`
	Saturday  DayHours `json:"saturday"`
	Sunday    DayHours `json:"sunday"`
}

// UpdateStoreConfigRequest запрос на обновление календарной конфигурации магазина
type UpdateStoreConfigRequest struct {
	MinAdvanceHours    int         `json:"minAdvanceHours"`
	AdvanceBookingDays int         `json:"advanceBookingDays"`
	WorkingHours       WeeklyHours `json:"workingHours"`
}

// StoreConfigResponse ответ с календарной конфигурацией магазина
type StoreConfigResponse struct {
	StoreID            int64       `json:"storeId"`
	Name               string      `json:"name"`
	Timezone           string      `json:"timezone"`
	MinAdvanceHours    int         `json:"minAdvanceHours"`
	AdvanceBookingDays int         `json:"advanceBookingDays"`
	WorkingHours       WeeklyHours `json:"workingHours"`
}

// Методы конвертации

// ToDomainWorkingHours конвертирует недельную таблицу в domain записи с валидацией.
// День с active=false сохраняется как выходной, его времена игнорируются.
func (w *WeeklyHours) ToDomainWorkingHours() ([]domain.WorkingHours, error) {
	days := []struct {
		weekday time.Weekday
		hours   DayHours
	}{
		{time.Monday, w.Monday},
		{time.Tuesday, w.Tuesday},
		{time.Wednesday, w.Wednesday},
		{time.Thursday, w.Thursday},
		{time.Friday, w.Friday},
		{time.Saturday, w.Saturday},
		{time.Sunday, w.Sunday},
	}

	result := make([]domain.WorkingHours, 0, len(days))
	for _, day := range days {
		entry := domain.WorkingHours{
			Weekday: day.weekday,
			Active:  day.hours.Active,
		}

		if day.hours.Active {
			open, err := types.NewTimeStringFromString(day.hours.Open)
			if err != nil {
				return nil, fmt.Errorf("%w: %s open time: %v", ErrInvalidWorkingHours, day.weekday, err)
			}
			closeTime, err := types.NewTimeStringFromString(day.hours.Close)
			if err != nil {
				return nil, fmt.Errorf("%w: %s close time: %v", ErrInvalidWorkingHours, day.weekday, err)
			}
			entry.OpenTime = open
			entry.CloseTime = closeTime

			if err := entry.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidWorkingHours, day.weekday, err)
			}
		}

		result = append(result, entry)
	}

	return result, nil
}

// FromDomainStore конвертирует domain модель магазина в DTO конфигурации
func FromDomainStore(s *domain.Store) *StoreConfigResponse {
	if s == nil {
		return nil
	}

	resp := &StoreConfigResponse{
		StoreID:            s.ID,
		Name:               s.Name,
		Timezone:           s.Timezone,
		MinAdvanceHours:    s.MinAdvanceHours,
		AdvanceBookingDays: s.AdvanceBookingDays,
	}

	for _, wh := range s.WorkingHours {
		day := DayHours{
			Open:   wh.OpenTime.String(),
			Close:  wh.CloseTime.String(),
			Active: wh.Active,
		}
		switch wh.Weekday {
		case time.Monday:
			resp.WorkingHours.Monday = day
		case time.Tuesday:
			resp.WorkingHours.Tuesday = day
		case time.Wednesday:
			resp.WorkingHours.Wednesday = day
		case time.Thursday:
			resp.WorkingHours.Thursday = day
		case time.Friday:
			resp.WorkingHours.Friday = day
		case time.Saturday:
			resp.WorkingHours.Saturday = day
		case time.Sunday:
			resp.WorkingHours.Sunday = day
		}
	}

	return resp
}
