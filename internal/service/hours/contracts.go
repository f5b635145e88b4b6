package hours

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// HoursRepository интерфейс репозитория часов работы
type HoursRepository interface {
	GetOverride(ctx context.Context, vendorID string, day time.Time) (*domain.DateOverride, error)
	UpsertOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error)
	GetMostRecentBefore(ctx context.Context, vendorID string, day time.Time, limit uint64) ([]*domain.StandingRule, error)
	UpsertRule(ctx context.Context, rule *domain.StandingRule) (*domain.StandingRule, error)
	ListRules(ctx context.Context, vendorID string) ([]*domain.StandingRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
