package get_hours

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
)

type HoursService interface {
	GetForDay(ctx context.Context, vendorID string, day time.Time) (*models.HoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
