package daysync

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// DayLoader загружает актуальное состояние дня
type DayLoader interface {
	LoadDay(ctx context.Context, vendorID string, date time.Time) (*View, error)
}

// Mutator отправляет изменение количества в слоте; ошибка означает отказ
type Mutator interface {
	SubmitDelta(ctx context.Context, vendorID string, date time.Time, slot types.TimeString, delta int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
