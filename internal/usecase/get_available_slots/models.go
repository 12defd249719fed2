package get_available_slots

import (
	"time"

	"github.com/avmos/SB-AppointmentService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком слотов на день
type Response struct {
	Date      time.Time // Дата, на которую запрашивались слоты
	StoreID   int64     // ID магазина
	ServiceID int64     // ID услуги
	Slots     []Slot    // Список слотов
}

// Slot модель временного слота.
// Слот эксклюзивен: одна активная запись полностью занимает его.
type Slot struct {
	StartTime       types.TimeString // Время начала слота в часовом поясе магазина
	StartsAt        time.Time        // Абсолютный момент начала
	DurationMinutes int              // Длительность слота в минутах
	Available       bool             // Свободен ли слот
}
