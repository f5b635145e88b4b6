package apply_delta

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	demandRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/demand"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// UseCase use case изменения количества в слоте с проверкой вместимости
type UseCase struct {
	hoursResolver  HoursResolver
	settingsLoader SettingsLoader
	demandRepo     DemandRepository
	txManager      TxManager
	metrics        Metrics
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hoursResolver HoursResolver,
	settingsLoader SettingsLoader,
	demandRepo DemandRepository,
	txManager TxManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		hoursResolver:  hoursResolver,
		settingsLoader: settingsLoader,
		demandRepo:     demandRepo,
		txManager:      txManager,
		metrics:        metrics,
		logger:         logger,
	}
}

// Execute применяет delta к количеству в слоте
// Новое количество max(0, current+delta); больше вместимости - отказ без изменений,
// ноль - строка удаляется, иначе upsert. Чтение и запись выполняются в одной сериализуемой транзакции.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ApplyDelta: validation failed: %v", err)
		return nil, err
	}
	date := types.DateOnly(req.Date)
	dateStr := types.FormatDate(date)

	uc.logger.Info("ApplyDelta: vendor=%s, date=%s, slot=%s, delta=%d", req.VendorID, dateStr, req.SlotTime, req.Delta)

	// 2. Слот должен входить в сетку дня
	hours, err := uc.hoursResolver.Resolve(ctx, req.VendorID, date)
	if err != nil {
		uc.logger.Error("ApplyDelta: failed to resolve hours: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve hours: %v", ErrInternal, err)
	}
	if !hours.HasSlot(req.SlotTime) {
		uc.logger.Warn("ApplyDelta: slot=%s is not in the grid of %s (source=%s, closed=%t)",
			req.SlotTime, dateStr, hours.Source, hours.IsClosed)
		return nil, fmt.Errorf("%w: %s %s", ErrInvalidSlot, dateStr, req.SlotTime)
	}

	// 3. Вместимость, проверка и изменение в одной транзакции.
	// Вместимость читается в той же транзакции, что и количество: проверка идет по одному снимку.
	var resp *Response
	var mutation string
	err = uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		resp, mutation = nil, ""

		settings, err := uc.settingsLoader.Load(ctx, req.VendorID)
		if err != nil {
			return fmt.Errorf("%w: ApplyDelta - load settings: %w", ErrInternal, err)
		}
		maxPerSlot := settings.MaxPerSlot

		current := 0
		row, err := uc.demandRepo.Get(ctx, req.VendorID, date, req.SlotTime)
		if err != nil && !errors.Is(err, demandRepo.ErrDemandNotFound) {
			return fmt.Errorf("%w: ApplyDelta - get demand: %w", ErrInternal, err)
		}
		if row != nil {
			current = row.Qty
		}

		// сравнение без сложения: current + delta не должно переполняться
		if req.Delta > maxPerSlot-current {
			return fmt.Errorf("%w: %d + %d > %d", ErrCapacityExceeded, current, req.Delta, maxPerSlot)
		}

		next := current + req.Delta
		if next < 0 {
			next = 0
		}

		resp = &Response{
			Date:        date,
			SlotTime:    req.SlotTime,
			PreviousQty: current,
			Qty:         next,
			MaxPerSlot:  maxPerSlot,
			Remaining:   maxPerSlot - next,
		}

		if next == 0 {
			resp.Deleted = true
			if row == nil {
				return nil
			}
			if err := uc.demandRepo.Delete(ctx, req.VendorID, date, req.SlotTime); err != nil {
				return fmt.Errorf("%w: ApplyDelta - delete demand: %w", ErrInternal, err)
			}
			mutation = domain.MutationDelete
			return nil
		}

		_, err = uc.demandRepo.Upsert(ctx, &domain.SlotDemand{
			VendorID: req.VendorID,
			Day:      date,
			SlotTime: req.SlotTime,
			Qty:      next,
			Note:     req.Note,
		})
		if err != nil {
			return fmt.Errorf("%w: ApplyDelta - upsert demand: %w", ErrInternal, err)
		}
		mutation = domain.MutationUpsert
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrCapacityExceeded) {
			uc.metrics.ObserveCapacityRejection()
			uc.logger.Warn("ApplyDelta: rejected for vendor=%s, date=%s, slot=%s: %v", req.VendorID, dateStr, req.SlotTime, err)
			return nil, err
		}
		uc.logger.Error("ApplyDelta: transaction failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ApplyDelta - transaction: %v", ErrInternal, err)
	}

	if mutation != "" {
		uc.metrics.ObserveDemandMutation(mutation)
	}

	uc.logger.Info("ApplyDelta: vendor=%s, date=%s, slot=%s: %d -> %d", req.VendorID, dateStr, req.SlotTime, resp.PreviousQty, resp.Qty)
	return resp, nil
}
