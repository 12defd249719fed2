package coupon

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/pkg/dbmetrics"
	"github.com/avmos/SB-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

const pgUniqueViolation = "23505"

var couponColumns = []string{
	"id",
	"store_id",
	"code",
	"type",
	"value",
	"min_amount",
	"max_discount",
	"usage_limit",
	"user_usage_limit",
	"starts_at",
	"ends_at",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий купонов и их использований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория купонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает купон. Код нормализуется на доменном уровне до вызова.
func (r *Repository) Create(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("coupons").
		Columns(
			"store_id",
			"code",
			"type",
			"value",
			"min_amount",
			"max_discount",
			"usage_limit",
			"user_usage_limit",
			"starts_at",
			"ends_at",
			"active",
		).
		Values(
			c.StoreID,
			c.Code,
			c.Type,
			c.Value,
			c.MinAmount,
			c.MaxDiscount,
			c.UsageLimit,
			c.UserUsageLimit,
			c.StartsAt,
			c.EndsAt,
			c.Active,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt, &updatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return c, nil
}

// GetByID получает купон по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(couponColumns...).
		From("coupons").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := r.scanCoupon(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan coupon: %v", ErrScanRow, err)
	}

	return c, nil
}

// GetByStoreAndCode получает купон магазина по нормализованному коду
func (r *Repository) GetByStoreAndCode(ctx context.Context, storeID int64, code string) (*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(couponColumns...).
		From("coupons").
		Where(squirrel.Eq{"store_id": storeID, "code": domain.NormalizeCouponCode(code)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStoreAndCode - build select query: %v", ErrBuildQuery, err)
	}

	c, err := r.scanCoupon(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStoreAndCode - scan coupon: %v", ErrScanRow, err)
	}

	return c, nil
}

// ListByStore получает купоны магазина
func (r *Repository) ListByStore(ctx context.Context, storeID int64) ([]*domain.Coupon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(couponColumns...).
		From("coupons").
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByStore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStore - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	coupons := make([]*domain.Coupon, 0)
	for rows.Next() {
		c, err := r.scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByStore - scan row: %v", ErrScanRow, err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByStore - rows error: %v", ErrScanRow, err)
	}

	return coupons, nil
}

// Update обновляет атрибуты купона
func (r *Repository) Update(ctx context.Context, c *domain.Coupon) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("coupons").
		Set("code", c.Code).
		Set("type", c.Type).
		Set("value", c.Value).
		Set("min_amount", c.MinAmount).
		Set("max_discount", c.MaxDiscount).
		Set("usage_limit", c.UsageLimit).
		Set("user_usage_limit", c.UserUsageLimit).
		Set("starts_at", c.StartsAt).
		Set("ends_at", c.EndsAt).
		Set("active", c.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == pgUniqueViolation {
			return ErrDuplicateCode
		}
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

// Deactivate выключает купон, сохраняя историю использований
func (r *Repository) Deactivate(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("coupons").
		Set("active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Deactivate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Deactivate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Deactivate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

// CountUsages считает количество использований купона.
// Внутри транзакции строки блокируются, чтобы конкурирующее бронирование
// не проскочило лимит.
func (r *Repository) CountUsages(ctx context.Context, couponID int64) (int, error) {
	return r.countUsages(ctx, squirrel.Eq{"coupon_id": couponID})
}

// CountUsagesByClient считает использования купона конкретным клиентом
func (r *Repository) CountUsagesByClient(ctx context.Context, couponID int64, clientEmail string) (int, error) {
	return r.countUsages(ctx, squirrel.Eq{"coupon_id": couponID, "client_email": clientEmail})
}

func (r *Repository) countUsages(ctx context.Context, where squirrel.Eq) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// COUNT(*) поверх FOR UPDATE недопустим, поэтому блокируем строки подзапросом
	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("coupon_usages").
		Where(where)
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = psqlbuilder.Select("COUNT(*)").
			FromSelect(
				psqlbuilder.Select("id").From("coupon_usages").Where(where).Suffix("FOR UPDATE"),
				"locked",
			)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: countUsages - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: countUsages - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// CreateUsage фиксирует использование купона. Вызывается только в одной
// транзакции с созданием записи, поэтому неудачное бронирование
// не сжигает использование.
func (r *Repository) CreateUsage(ctx context.Context, usage *domain.CouponUsage) (*domain.CouponUsage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("coupon_usages").
		Columns("coupon_id", "client_email", "appointment_id").
		Values(usage.CouponID, usage.ClientEmail, usage.AppointmentID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateUsage - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&usage.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateUsage - execute insert: %v", ErrExecQuery, err)
	}
	usage.CreatedAt = createdAt.Time

	return usage, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanCoupon(row rowScanner) (*domain.Coupon, error) {
	var c domain.Coupon
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.StoreID,
		&c.Code,
		&c.Type,
		&c.Value,
		&c.MinAmount,
		&c.MaxDiscount,
		&c.UsageLimit,
		&c.UserUsageLimit,
		&c.StartsAt,
		&c.EndsAt,
		&c.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}
