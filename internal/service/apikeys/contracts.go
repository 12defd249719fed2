package apikeys

import (
	"context"

	"github.com/avmos/SB-AppointmentService/internal/auth"
)

// APIKeyRepository интерфейс репозитория API ключей
type APIKeyRepository interface {
	Create(ctx context.Context, key *auth.APIKey) (*auth.APIKey, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
