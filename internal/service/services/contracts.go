package services

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/domain"
)

// ServiceRepository интерфейс репозитория каталога услуг
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListByStore(ctx context.Context, storeID int64, activeOnly bool) ([]*domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) error
	Deactivate(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// AppointmentRepository интерфейс репозитория записей (для проверки ссылок)
type AppointmentRepository interface {
	HasAnyForService(ctx context.Context, serviceID int64) (bool, error)
}

// StoreRepository интерфейс репозитория магазинов
type StoreRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
