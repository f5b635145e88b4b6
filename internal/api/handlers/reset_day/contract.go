package reset_day

import (
	"context"

	resetDay "github.com/m04kA/SMC-SlotService/internal/usecase/reset_day"
)

type ResetDayUseCase interface {
	Execute(ctx context.Context, req *resetDay.Request) (*resetDay.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
