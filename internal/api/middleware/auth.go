package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/avmos/SB-AppointmentService/internal/api/handlers"
	"github.com/avmos/SB-AppointmentService/internal/auth"
	apikeyRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/apikey"
)

const (
	msgInvalidToken  = "невалидный сессионный токен"
	msgInvalidAPIKey = "невалидный API ключ"
	msgAuthRequired  = "требуется аутентификация"
)

// APIKeyRepository доступ к хранилищу интеграционных ключей
type APIKeyRepository interface {
	GetByKeyID(ctx context.Context, keyID string) (*auth.APIKey, error)
	TouchLastUsed(ctx context.Context, id int64) error
}

// Logger интерфейс логирования для middleware
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AuthMiddleware разбирает учетные данные запроса и кладет вызывающего
// в контекст. Запрос без учетных данных проходит дальше как гостевой:
// защита конкретных маршрутов выполняется RequireAuth.
type AuthMiddleware struct {
	jwtSecret string
	apiKeys   APIKeyRepository
	logger    Logger
}

func NewAuthMiddleware(jwtSecret string, apiKeys APIKeyRepository, logger Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		apiKeys:   apiKeys,
		logger:    logger,
	}
}

// Authenticate middleware разбора учетных данных.
// Поддерживаются сессионные токены (Authorization: Bearer) и
// интеграционные ключи (X-API-Key). Невалидные учетные данные
// отклоняются: молчаливый даунгрейд до гостя скрывал бы ошибки интеграций.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header := r.Header.Get("Authorization"); header != "" {
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				m.logger.Warn("Auth: malformed Authorization header")
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			caller, err := auth.ParseSessionToken(m.jwtSecret, tokenString)
			if err != nil {
				m.logger.Warn("Auth: invalid session token: %v", err)
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
			return
		}

		if rawKey := r.Header.Get("X-API-Key"); rawKey != "" {
			caller, err := m.resolveAPIKey(r.Context(), rawKey)
			if err != nil {
				m.logger.Warn("Auth: invalid api key: %v", err)
				handlers.RespondUnauthorized(w, msgInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
			return
		}

		// Гостевой запрос
		next.ServeHTTP(w, r)
	})
}

// resolveAPIKey ищет ключ по открытой части и сверяет секрет с хэшом
func (m *AuthMiddleware) resolveAPIKey(ctx context.Context, rawKey string) (*auth.Caller, error) {
	keyID, secret, err := auth.SplitAPIKey(rawKey)
	if err != nil {
		return nil, err
	}

	key, err := m.apiKeys.GetByKeyID(ctx, keyID)
	if err != nil {
		if errors.Is(err, apikeyRepo.ErrKeyNotFound) {
			return nil, err
		}
		m.logger.Error("Auth: failed to load api key: %v", err)
		return nil, err
	}

	if err := key.VerifySecret(secret); err != nil {
		return nil, err
	}

	// Отметка использования не должна ломать запрос
	if err := m.apiKeys.TouchLastUsed(ctx, key.ID); err != nil {
		m.logger.Warn("Auth: failed to touch api key id=%d: %v", key.ID, err)
	}

	return key.Caller(), nil
}

// RequireAuth отклоняет гостевые запросы на защищенных маршрутах
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.CallerFromContext(r.Context()) == nil {
			handlers.RespondUnauthorized(w, msgAuthRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
