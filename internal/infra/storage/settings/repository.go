package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/psqlbuilder"
)

const table = "vendor_settings"

// Repository репозиторий настроек вендора
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает настройки вендора
func (r *Repository) Get(ctx context.Context, vendorID string) (*domain.VendorSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"vendor_id",
		"max_per_slot",
		"created_at",
		"updated_at",
	).
		From(table).
		Where(squirrel.Eq{"vendor_id": vendorID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.VendorSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.VendorID,
		&s.MaxPerSlot,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %w", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// Upsert создает или заменяет настройки вендора (ключ - vendor_id)
func (r *Repository) Upsert(ctx context.Context, s *domain.VendorSettings) (*domain.VendorSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("vendor_id", "max_per_slot").
		Values(s.VendorID, s.MaxPerSlot).
		Suffix("ON CONFLICT (vendor_id) DO UPDATE SET max_per_slot = EXCLUDED.max_per_slot, updated_at = NOW() " +
			"RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// EnsureDefault создает строку настроек со значением maxPerSlot, если её нет,
// и возвращает актуальные настройки. Существующая строка не изменяется.
func (r *Repository) EnsureDefault(ctx context.Context, vendorID string, maxPerSlot int) (*domain.VendorSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("vendor_id", "max_per_slot").
		Values(vendorID, maxPerSlot).
		Suffix("ON CONFLICT (vendor_id) DO NOTHING").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: EnsureDefault - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: EnsureDefault - execute insert: %w", ErrExecQuery, err)
	}

	return r.Get(ctx, vendorID)
}
