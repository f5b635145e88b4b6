package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/internal/domain"
	demandRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/demand"
	hoursRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/hours"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/schema"
	settingsRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SlotService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
	"github.com/m04kA/SMC-SlotService/pkg/txmanager"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

type settingsStore interface {
	Upsert(ctx context.Context, s *domain.VendorSettings) (*domain.VendorSettings, error)
	EnsureDefault(ctx context.Context, vendorID string, maxPerSlot int) (*domain.VendorSettings, error)
}

type hoursStore interface {
	GetOverride(ctx context.Context, vendorID string, day time.Time) (*domain.DateOverride, error)
	UpsertOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error)
	GetMostRecentBefore(ctx context.Context, vendorID string, day time.Time, limit uint64) ([]*domain.StandingRule, error)
	UpsertRule(ctx context.Context, rule *domain.StandingRule) (*domain.StandingRule, error)
	ListRules(ctx context.Context, vendorID string) ([]*domain.StandingRule, error)
}

type demandStore interface {
	ListByDay(ctx context.Context, vendorID string, day time.Time) ([]*domain.SlotDemand, error)
	Get(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) (*domain.SlotDemand, error)
	Upsert(ctx context.Context, d *domain.SlotDemand) (*domain.SlotDemand, error)
	Delete(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) error
	DeleteByDay(ctx context.Context, vendorID string, day time.Time) (int64, error)
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage репозитории и менеджер транзакций выбранного драйвера
type storage struct {
	settings settingsStore
	hours    hoursStore
	demand   demandStore
	tx       txManager
	close    func()
}

// openStorage открывает PostgreSQL или создает хранилище в памяти
func openStorage(cfg *config.Config, m *metrics.Metrics, stopMetricsCh <-chan struct{}, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.New()
		return &storage{
			settings: store.Settings(),
			hours:    store.Hours(),
			demand:   store.Demand(),
			tx:       store,
			close:    func() {},
		}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// nil metrics - обёртка только проксирует запросы
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopMetricsCh)
	if m != nil {
		log.Info("Database metrics collection started")
	}

	if cfg.Database.AutoMigrate {
		if err := schema.Migrate(db, log); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &storage{
		settings: settingsRepo.NewRepository(wrappedDB),
		hours:    hoursRepo.NewRepository(wrappedDB),
		demand:   demandRepo.NewRepository(wrappedDB),
		tx:       txmanager.NewTransactionManager(wrappedDB),
		close:    func() { _ = db.Close() },
	}, nil
}
