package appointments

import (
	"context"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByStoreWithFilter(ctx context.Context, filter domain.StoreAppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatusIf(ctx context.Context, id int64, expected, target domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
}

// StoreRepository интерфейс репозитория магазинов
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
}

// Notifier интерфейс для публикации событий жизненного цикла записей
type Notifier interface {
	Publish(ctx context.Context, event *notify.AppointmentEvent) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
