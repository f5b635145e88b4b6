package apply_delta

import (
	"context"

	applyDelta "github.com/m04kA/SMC-SlotService/internal/usecase/apply_delta"
)

type ApplyDeltaUseCase interface {
	Execute(ctx context.Context, req *applyDelta.Request) (*applyDelta.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
