package auditlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avmos/SB-AppointmentService/pkg/dbmetrics"
	"github.com/avmos/SB-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("auditlog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("auditlog.repository: failed to execute query")
)

// Entry одна строка журнала интеграционных вызовов
type Entry struct {
	APIKeyID   int64
	Method     string
	Path       string
	StatusCode int
	DurationMs int64
	CreatedAt  time.Time
}

// Repository insert-only репозиторий журнала API вызовов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает одну строку журнала
func (r *Repository) Create(ctx context.Context, e *Entry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("api_request_logs").
		Columns("api_key_id", "method", "path", "status_code", "duration_ms").
		Values(e.APIKeyID, e.Method, e.Path, e.StatusCode, e.DurationMs).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
