package apply_delta

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// HoursResolver определяет действующие часы работы на дату
type HoursResolver interface {
	Resolve(ctx context.Context, vendorID string, day time.Time) (*domain.EffectiveHours, error)
}

// SettingsLoader возвращает настройки вендора (создаются при первом обращении)
type SettingsLoader interface {
	Load(ctx context.Context, vendorID string) (*domain.VendorSettings, error)
}

// DemandRepository интерфейс репозитория спроса
type DemandRepository interface {
	// Get внутри транзакции блокирует строку (SELECT ... FOR UPDATE)
	Get(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) (*domain.SlotDemand, error)
	Upsert(ctx context.Context, d *domain.SlotDemand) (*domain.SlotDemand, error)
	Delete(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) error
}

// TxManager выполняет функцию в сериализуемой транзакции
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики
type Metrics interface {
	ObserveCapacityRejection()
	ObserveDemandMutation(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
