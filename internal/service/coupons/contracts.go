package coupons

import (
	"context"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/domain"
)

// CouponRepository интерфейс репозитория купонов
type CouponRepository interface {
	Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	GetByID(ctx context.Context, id int64) (*domain.Coupon, error)
	GetByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Coupon, error)
	ListByStore(ctx context.Context, storeID int64) ([]*domain.Coupon, error)
	Update(ctx context.Context, c *domain.Coupon) error
	Deactivate(ctx context.Context, id int64) error
	CountUsages(ctx context.Context, couponID int64) (int, error)
	CountUsagesByClient(ctx context.Context, couponID int64, clientEmail string) (int, error)
}

// StoreRepository интерфейс репозитория магазинов
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
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
