package get_day_view

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
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
	ListByDay(ctx context.Context, vendorID string, day time.Time) ([]*domain.SlotDemand, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
