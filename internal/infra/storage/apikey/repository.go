package apikey

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avmos/SB-AppointmentService/internal/auth"
	"github.com/avmos/SB-AppointmentService/pkg/dbmetrics"
	"github.com/avmos/SB-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий API ключей интеграционного доступа
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ключей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый ключ (секрет уже захэширован)
func (r *Repository) Create(ctx context.Context, key *auth.APIKey) (*auth.APIKey, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	capsJSON, err := auth.MarshalCapabilities(key.Caps)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal capabilities: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Insert("api_keys").
		Columns("key_id", "secret_hash", "name", "company_id", "store_id", "capabilities", "pre_confirm", "active").
		Values(key.KeyID, key.SecretHash, key.Name, key.CompanyID, key.StoreID, capsJSON, key.PreConfirm, key.Active).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&key.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	key.CreatedAt = createdAt.Time

	return key, nil
}

// GetByKeyID ищет активный ключ по публичному идентификатору
func (r *Repository) GetByKeyID(ctx context.Context, keyID string) (*auth.APIKey, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"key_id",
		"secret_hash",
		"name",
		"company_id",
		"store_id",
		"capabilities",
		"pre_confirm",
		"active",
		"created_at",
		"last_used_at",
	).
		From("api_keys").
		Where(squirrel.Eq{"key_id": keyID, "active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByKeyID - build select query: %v", ErrBuildQuery, err)
	}

	var key auth.APIKey
	var capsJSON []byte
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&key.ID,
		&key.KeyID,
		&key.SecretHash,
		&key.Name,
		&key.CompanyID,
		&key.StoreID,
		&capsJSON,
		&key.PreConfirm,
		&key.Active,
		&createdAt,
		&key.LastUsedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKeyID - scan api key: %v", ErrScanRow, err)
	}

	key.CreatedAt = createdAt.Time

	caps, err := auth.ParseCapabilities(capsJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKeyID - parse capabilities: %v", ErrScanRow, err)
	}
	key.Caps = caps

	return &key, nil
}

// TouchLastUsed отмечает момент последнего использования ключа
func (r *Repository) TouchLastUsed(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("api_keys").
		Set("last_used_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TouchLastUsed - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: TouchLastUsed - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
