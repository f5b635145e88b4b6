package reset_day

import (
	"context"
	"time"
)

// DemandRepository интерфейс репозитория спроса
type DemandRepository interface {
	DeleteByDay(ctx context.Context, vendorID string, day time.Time) (int64, error)
}

// Metrics доменные метрики
type Metrics interface {
	ObserveDemandMutation(kind string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
