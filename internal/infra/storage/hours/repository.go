package hours

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

const (
	overridesTable = "opening_hours_by_date"
	rulesTable     = "opening_rules"
)

// Repository репозиторий часов работы: исключения на дату и правила "с даты и далее"
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория часов работы
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOverride получает исключение для вендора на конкретную дату
func (r *Repository) GetOverride(ctx context.Context, vendorID string, day time.Time) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"vendor_id",
		"day",
		"is_closed",
		"open_time",
		"close_time",
		"slot_minutes",
		"created_at",
		"updated_at",
	).
		From(overridesTable).
		Where(squirrel.Eq{"vendor_id": vendorID, "day": types.FormatDate(day)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - build select query: %v", ErrBuildQuery, err)
	}

	var o domain.DateOverride
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&o.ID,
		&o.VendorID,
		&o.Day,
		&o.IsClosed,
		&o.OpenTime,
		&o.CloseTime,
		&o.SlotMinutes,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOverrideNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverride - scan override: %w", ErrScanRow, err)
	}

	o.Day = types.DateOnly(o.Day)
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return &o, nil
}

// UpsertOverride создает или заменяет исключение на дату (ключ - vendor_id, day)
func (r *Repository) UpsertOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(overridesTable).
		Columns("vendor_id", "day", "is_closed", "open_time", "close_time", "slot_minutes").
		Values(o.VendorID, types.FormatDate(o.Day), o.IsClosed, o.OpenTime, o.CloseTime, o.SlotMinutes).
		Suffix("ON CONFLICT (vendor_id, day) DO UPDATE SET " +
			"is_closed = EXCLUDED.is_closed, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, " +
			"slot_minutes = EXCLUDED.slot_minutes, updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute insert: %w", ErrExecQuery, err)
	}

	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	return o, nil
}

// GetMostRecentBefore возвращает до limit правил вендора с start_day <= day,
// отсортированных по start_day DESC, id ASC. Первое правило - действующее на дату.
// Второе нужно только для обнаружения дублей по start_day.
func (r *Repository) GetMostRecentBefore(ctx context.Context, vendorID string, day time.Time, limit uint64) ([]*domain.StandingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := rulesSelect().
		Where(squirrel.Eq{"vendor_id": vendorID}).
		Where(squirrel.LtOrEq{"start_day": types.FormatDate(day)}).
		OrderBy("start_day DESC", "id ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetMostRecentBefore - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetMostRecentBefore - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// UpsertRule создает или заменяет правило (ключ - vendor_id, start_day)
func (r *Repository) UpsertRule(ctx context.Context, rule *domain.StandingRule) (*domain.StandingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(rulesTable).
		Columns("vendor_id", "start_day", "is_closed", "open_time", "close_time", "slot_minutes").
		Values(rule.VendorID, types.FormatDate(rule.StartDay), rule.IsClosed, rule.OpenTime, rule.CloseTime, rule.SlotMinutes).
		Suffix("ON CONFLICT (vendor_id, start_day) DO UPDATE SET " +
			"is_closed = EXCLUDED.is_closed, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time, " +
			"slot_minutes = EXCLUDED.slot_minutes, updated_at = NOW() " +
			"RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - execute insert: %w", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// ListRules получает все правила вендора, отсортированные по start_day
func (r *Repository) ListRules(ctx context.Context, vendorID string) ([]*domain.StandingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := rulesSelect().
		Where(squirrel.Eq{"vendor_id": vendorID}).
		OrderBy("start_day ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

func rulesSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"vendor_id",
		"start_day",
		"is_closed",
		"open_time",
		"close_time",
		"slot_minutes",
		"created_at",
		"updated_at",
	).From(rulesTable)
}

// scanRules сканирует результаты запроса в слайс правил
func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.StandingRule, error) {
	rules := make([]*domain.StandingRule, 0)

	for rows.Next() {
		var rule domain.StandingRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.VendorID,
			&rule.StartDay,
			&rule.IsClosed,
			&rule.OpenTime,
			&rule.CloseTime,
			&rule.SlotMinutes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %w", ErrScanRow, err)
		}

		rule.StartDay = types.DateOnly(rule.StartDay)
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}
