package create_service

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/services/models"
)

type CatalogService interface {
	Create(ctx context.Context, storeID int64, req *models.CreateServiceRequest) (*models.ServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
