package get_day_view

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// UseCase use case сборки дня: часы работы, сетка слотов и загрузка каждого слота
type UseCase struct {
	hoursResolver  HoursResolver
	settingsLoader SettingsLoader
	demandRepo     DemandRepository
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	hoursResolver HoursResolver,
	settingsLoader SettingsLoader,
	demandRepo DemandRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		hoursResolver:  hoursResolver,
		settingsLoader: settingsLoader,
		demandRepo:     demandRepo,
		logger:         logger,
	}
}

// Execute выполняет use case получения дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDayView: validation failed: %v", err)
		return nil, err
	}
	date := types.DateOnly(req.Date)
	dateStr := types.FormatDate(date)

	// 2. Часы работы на дату
	hours, err := uc.hoursResolver.Resolve(ctx, req.VendorID, date)
	if err != nil {
		uc.logger.Error("GetDayView: failed to resolve hours for vendor=%s, date=%s: %v", req.VendorID, dateStr, err)
		return nil, fmt.Errorf("%w: failed to resolve hours: %v", ErrInternal, err)
	}

	// 3. Вместимость слота
	settings, err := uc.settingsLoader.Load(ctx, req.VendorID)
	if err != nil {
		uc.logger.Error("GetDayView: failed to load settings for vendor=%s: %v", req.VendorID, err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	// 4. Спрос за день
	rows, err := uc.demandRepo.ListByDay(ctx, req.VendorID, date)
	if err != nil {
		uc.logger.Error("GetDayView: failed to list demand for vendor=%s, date=%s: %v", req.VendorID, dateStr, err)
		return nil, fmt.Errorf("%w: failed to list demand: %v", ErrInternal, err)
	}
	ledger := domain.NewDemandLedger(rows)

	// 5. Сетка слотов с загрузкой
	slotTimes := hours.Slots()
	slots := make([]Slot, 0, len(slotTimes))
	for _, t := range slotTimes {
		remaining := ledger.Remaining(t, settings.MaxPerSlot)
		slots = append(slots, Slot{
			StartTime: t,
			Used:      ledger.UsedFor(t),
			Remaining: remaining,
			Full:      remaining == 0,
		})
	}

	// 6. Спрос вне сетки (часы изменили задним числом)
	orphanTimes := ledger.Orphans(slotTimes)
	orphans := make([]OrphanSlot, 0, len(orphanTimes))
	for _, t := range orphanTimes {
		orphans = append(orphans, OrphanSlot{StartTime: t, Used: ledger.UsedFor(t)})
	}
	if len(orphans) > 0 {
		uc.logger.Warn("GetDayView: data integrity anomaly: vendor=%s, date=%s has demand on %d slots outside of hours",
			req.VendorID, dateStr, len(orphans))
	}

	return &Response{
		Date:       date,
		Hours:      *hours,
		MaxPerSlot: settings.MaxPerSlot,
		Slots:      slots,
		TotalUsed:  ledger.Total(),
		Orphans:    orphans,
	}, nil
}
