package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/avmos/SB-AppointmentService/internal/domain"
	"github.com/avmos/SB-AppointmentService/pkg/dbmetrics"
	"github.com/avmos/SB-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с магазинами и их расписанием
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория магазинов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает магазин вместе с недельной таблицей рабочих часов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"company_id",
		"timezone",
		"min_advance_hours",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From("stores").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var store domain.Store
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&store.ID,
		&store.Name,
		&store.CompanyID,
		&store.Timezone,
		&store.MinAdvanceHours,
		&store.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan store: %v", ErrScanRow, err)
	}

	store.CreatedAt = createdAt.Time
	store.UpdatedAt = updatedAt.Time

	workingHours, err := r.getWorkingHours(ctx, id)
	if err != nil {
		return nil, err
	}
	store.WorkingHours = workingHours

	return &store, nil
}

func (r *Repository) getWorkingHours(ctx context.Context, storeID int64) ([]domain.WorkingHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"open_time",
		"close_time",
		"active",
	).
		From("store_working_hours").
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWorkingHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := make([]domain.WorkingHours, 0, 7)
	for rows.Next() {
		var wh domain.WorkingHours
		var weekday int
		if err := rows.Scan(&weekday, &wh.OpenTime, &wh.CloseTime, &wh.Active); err != nil {
			return nil, fmt.Errorf("%w: getWorkingHours - scan row: %v", ErrScanRow, err)
		}
		wh.Weekday = time.Weekday(weekday)
		hours = append(hours, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWorkingHours - rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// UpdateCalendarConfig обновляет политики бронирования и заменяет недельную
// таблицу рабочих часов. Вызывается внутри транзакции, чтобы таблица
// не наблюдалась наполовину замененной.
func (r *Repository) UpdateCalendarConfig(ctx context.Context, storeID int64, minAdvanceHours, advanceBookingDays int, hours []domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("stores").
		Set("min_advance_hours", minAdvanceHours).
		Set("advance_booking_days", advanceBookingDays).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": storeID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrStoreNotFound
	}

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("store_working_hours").
		Where(squirrel.Eq{"store_id": storeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - delete working hours: %v", ErrExecQuery, err)
	}

	if len(hours) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("store_working_hours").
		Columns("store_id", "weekday", "open_time", "close_time", "active")
	for _, wh := range hours {
		insertBuilder = insertBuilder.Values(storeID, int(wh.Weekday), wh.OpenTime, wh.CloseTime, wh.Active)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: UpdateCalendarConfig - insert working hours: %v", ErrExecQuery, err)
	}

	return nil
}
