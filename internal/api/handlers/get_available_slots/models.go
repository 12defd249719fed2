package get_available_slots

import (
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	getAvailableSlots "github.com/avmos/SB-AppointmentService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "HH:MM" в часовом поясе магазина
	StartsAt        string `json:"startsAt"`  // RFC 3339
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// AvailableSlotsResponse HTTP ответ со слотами на день
type AvailableSlotsResponse struct {
	Date      string         `json:"date"`
	StoreID   int64          `json:"storeId"`
	ServiceID int64          `json:"serviceId"`
	Slots     []SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ServiceID: serviceID,
		Date:      date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:       slot.StartTime.String(),
			StartsAt:        slot.StartsAt.Format(time.RFC3339),
			DurationMinutes: slot.DurationMinutes,
			Available:       slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		StoreID:   resp.StoreID,
		ServiceID: resp.ServiceID,
		Slots:     slots,
	}
}
