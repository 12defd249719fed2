package get_store_config

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/stores/models"
)

type StoreService interface {
	GetConfig(ctx context.Context, storeID int64) (*models.StoreConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
