package create_appointment

import "time"

// Request модель запроса на создание записи
type Request struct {
	ServiceID int64     // ID услуги
	StartsAt  time.Time // Момент начала записи

	ClientName  string // Имя клиента
	ClientEmail string // Email клиента (идентичность для лимитов купонов)
	ClientPhone string // Телефон клиента (опционально)

	CouponCode *string // Код купона (опционально)
	Notes      *string // Дополнительные заметки (опционально)

	// Confirm создаёт запись сразу в статусе confirmed.
	// Учитывается только для доверенных вызывающих, гости всегда получают pending.
	Confirm bool
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64     // ID созданной записи
	StoreID         int64     // ID магазина
	ServiceID       int64     // ID услуги
	StartsAt        time.Time // Момент начала
	DurationMinutes int       // Длительность в минутах
	Status          string    // Статус записи

	ClientName  string // Имя клиента
	ClientEmail string // Email клиента
	ClientPhone string // Телефон клиента

	// Ценообразование
	RawPrice   float64 // Цена услуги до скидки
	Discount   float64 // Применённая скидка
	TotalPrice float64 // Итоговая цена
	CouponID   *int64  // ID применённого купона

	Notes *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
