package reschedule_appointment

import "time"

// Request модель запроса на перенос записи
type Request struct {
	AppointmentID int64     // ID переносимой записи
	NewStartsAt   time.Time // Новый момент начала
}

// Response модель ответа с перенесенной записью
type Response struct {
	ID              int64     // ID записи
	StoreID         int64     // ID магазина
	ServiceID       int64     // ID услуги
	StartsAt        time.Time // Новый момент начала
	DurationMinutes int       // Длительность в минутах
	Status          string    // Статус записи (не меняется при переносе)

	ClientName  string  // Имя клиента
	ClientEmail string  // Email клиента
	TotalPrice  float64 // Итоговая цена (скидка сохраняется)

	Notes *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
