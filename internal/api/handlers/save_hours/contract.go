package save_hours

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
)

type HoursService interface {
	Save(ctx context.Context, req *models.SaveHoursRequest) (*models.HoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
