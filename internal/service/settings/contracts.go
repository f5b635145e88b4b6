package settings

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек вендора
type SettingsRepository interface {
	Upsert(ctx context.Context, s *domain.VendorSettings) (*domain.VendorSettings, error)
	EnsureDefault(ctx context.Context, vendorID string, maxPerSlot int) (*domain.VendorSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
