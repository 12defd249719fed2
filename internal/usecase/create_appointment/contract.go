package create_appointment

import (
	"context"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, ap *domain.Appointment) (*domain.Appointment, error)
	ListOverlapping(ctx context.Context, serviceID int64, from, to time.Time, excludeID *int64) ([]*domain.Appointment, error)
}

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// StoreRepository интерфейс репозитория магазинов
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
}

// CouponRepository интерфейс репозитория купонов
type CouponRepository interface {
	GetByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Coupon, error)
	CountUsages(ctx context.Context, couponID int64) (int, error)
	CountUsagesByClient(ctx context.Context, couponID int64, clientEmail string) (int, error)
	CreateUsage(ctx context.Context, usage *domain.CouponUsage) (*domain.CouponUsage, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
