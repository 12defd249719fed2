package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/internal/infra/storage/auditlog"
)

// AuditLogRepository insert-only доступ к журналу интеграционных вызовов
type AuditLogRepository interface {
	Create(ctx context.Context, e *auditlog.Entry) error
}

// AuditMiddleware пишет строку журнала на каждый запрос, выполненный
// по API ключу. Сессионные и гостевые запросы не журналируются.
type AuditMiddleware struct {
	repo   AuditLogRepository
	logger Logger
}

func NewAuditMiddleware(repo AuditLogRepository, logger Logger) *AuditMiddleware {
	return &AuditMiddleware{
		repo:   repo,
		logger: logger,
	}
}

// Record middleware журналирования. Должен стоять после Authenticate.
// Запись асинхронная: журнал не добавляет задержку запросу и его отказ
// не влияет на ответ.
func (m *AuditMiddleware) Record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := auth.CallerFromContext(r.Context())
		if caller == nil || caller.Kind != auth.CallerAPIKey || caller.APIKeyID == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		entry := &auditlog.Entry{
			APIKeyID:   *caller.APIKeyID,
			Method:     r.Method,
			Path:       r.URL.Path,
			StatusCode: recorder.status,
			DurationMs: time.Since(start).Milliseconds(),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := m.repo.Create(ctx, entry); err != nil {
				m.logger.Error("Audit: failed to write request log for api_key_id=%d: %v", entry.APIKeyID, err)
			}
		}()
	})
}
