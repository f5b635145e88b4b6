package list_rules

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
)

type HoursService interface {
	ListRules(ctx context.Context, vendorID string) (*models.RuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
