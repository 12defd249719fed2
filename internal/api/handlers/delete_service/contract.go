package delete_service

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/services/models"
)

type CatalogService interface {
	Delete(ctx context.Context, id int64) (*models.DeleteServiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
