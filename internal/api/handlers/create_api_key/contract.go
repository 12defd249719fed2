package create_api_key

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/service/apikeys/models"
)

type APIKeyService interface {
	Create(ctx context.Context, req *models.CreateAPIKeyRequest) (*models.CreateAPIKeyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
