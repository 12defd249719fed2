package stores

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/domain"
)

// StoreRepository интерфейс репозитория магазинов
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
	UpdateCalendarConfig(ctx context.Context, storeID int64, minAdvanceHours, advanceBookingDays int, hours []domain.WorkingHours) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
