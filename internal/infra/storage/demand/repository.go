package demand

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

const table = "slot_demand"

// Repository репозиторий спроса по слотам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория спроса
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByDay получает все строки спроса вендора за день, отсортированные по времени слота
func (r *Repository) ListByDay(ctx context.Context, vendorID string, day time.Time) ([]*domain.SlotDemand, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := demandSelect().
		Where(squirrel.Eq{"vendor_id": vendorID, "day": types.FormatDate(day)}).
		OrderBy("slot_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanDemand(rows)
}

// Get получает строку спроса для слота.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы параллельные изменения
// одного слота выполнялись последовательно.
func (r *Repository) Get(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) (*domain.SlotDemand, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := demandSelect().
		Where(squirrel.Eq{"vendor_id": vendorID, "day": types.FormatDate(day), "slot_time": slot})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var d domain.SlotDemand
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&d.ID,
		&d.VendorID,
		&d.Day,
		&d.SlotTime,
		&d.Qty,
		&d.Note,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDemandNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan demand: %w", ErrScanRow, err)
	}

	d.Day = types.DateOnly(d.Day)
	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return &d, nil
}

// Upsert создает или заменяет строку спроса (ключ - vendor_id, day, slot_time).
// Строки с qty <= 0 не сохраняются: отсутствие строки означает ноль.
func (r *Repository) Upsert(ctx context.Context, d *domain.SlotDemand) (*domain.SlotDemand, error) {
	if d.Qty <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQty, d.Qty)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("vendor_id", "day", "slot_time", "qty", "note").
		Values(d.VendorID, types.FormatDate(d.Day), d.SlotTime, d.Qty, d.Note).
		Suffix("ON CONFLICT (vendor_id, day, slot_time) DO UPDATE SET " +
			"qty = EXCLUDED.qty, note = COALESCE(EXCLUDED.note, " + table + ".note), updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&d.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	d.CreatedAt = createdAt.Time
	d.UpdatedAt = updatedAt.Time

	return d, nil
}

// Delete удаляет строку спроса для слота
func (r *Repository) Delete(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"vendor_id": vendorID, "day": types.FormatDate(day), "slot_time": slot}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrDemandNotFound
	}

	return nil
}

// DeleteByDay удаляет весь спрос вендора за день и возвращает количество удалённых строк
func (r *Repository) DeleteByDay(ctx context.Context, vendorID string, day time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"vendor_id": vendorID, "day": types.FormatDate(day)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByDay - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByDay - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByDay - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func demandSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"vendor_id",
		"day",
		"slot_time",
		"qty",
		"note",
		"created_at",
		"updated_at",
	).From(table)
}

// scanDemand сканирует результаты запроса в слайс строк спроса
func (r *Repository) scanDemand(rows *sql.Rows) ([]*domain.SlotDemand, error) {
	result := make([]*domain.SlotDemand, 0)

	for rows.Next() {
		var d domain.SlotDemand
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&d.ID,
			&d.VendorID,
			&d.Day,
			&d.SlotTime,
			&d.Qty,
			&d.Note,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanDemand - scan row: %w", ErrScanRow, err)
		}

		d.Day = types.DateOnly(d.Day)
		d.CreatedAt = createdAt.Time
		d.UpdatedAt = updatedAt.Time

		result = append(result, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanDemand - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}
