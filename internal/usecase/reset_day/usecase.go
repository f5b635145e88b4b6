package reset_day

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// UseCase use case сброса всего спроса вендора за один день
// Часы работы и другие дни не затрагиваются
type UseCase struct {
	demandRepo DemandRepository
	metrics    Metrics
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(demandRepo DemandRepository, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		demandRepo: demandRepo,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute удаляет все строки спроса (vendor, date)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.VendorID == "" {
		return nil, fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := types.DateOnly(req.Date)

	deleted, err := uc.demandRepo.DeleteByDay(ctx, req.VendorID, date)
	if err != nil {
		uc.logger.Error("ResetDay: repository error for vendor=%s, date=%s: %v", req.VendorID, types.FormatDate(date), err)
		return nil, fmt.Errorf("%w: ResetDay - repository error: %v", ErrInternal, err)
	}

	if deleted > 0 {
		uc.metrics.ObserveDemandMutation(domain.MutationDelete)
	}

	uc.logger.Info("ResetDay: vendor=%s, date=%s, deleted %d rows", req.VendorID, types.FormatDate(date), deleted)
	return &Response{Date: date, Deleted: deleted}, nil
}
