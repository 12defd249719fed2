package list_services

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/services/models"
)

type CatalogService interface {
	ListByStore(ctx context.Context, storeID int64) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
