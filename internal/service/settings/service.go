package settings

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/service/settings/models"
)

// Service сервис настроек вендора
type Service struct {
	settingsRepo      SettingsRepository
	defaultMaxPerSlot int
	logger            Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(settingsRepo SettingsRepository, defaultMaxPerSlot int, logger Logger) *Service {
	return &Service{
		settingsRepo:      settingsRepo,
		defaultMaxPerSlot: defaultMaxPerSlot,
		logger:            logger,
	}
}

// Load возвращает настройки вендора, создавая строку со значением по умолчанию при первом обращении
func (s *Service) Load(ctx context.Context, vendorID string) (*domain.VendorSettings, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}

	settings, err := s.settingsRepo.EnsureDefault(ctx, vendorID, s.defaultMaxPerSlot)
	if err != nil {
		s.logger.Error("Load: repository error for vendor=%s: %v", vendorID, err)
		return nil, fmt.Errorf("%w: Load - repository error: %w", ErrInternal, err)
	}

	return settings, nil
}

// Get возвращает настройки вендора в виде DTO
func (s *Service) Get(ctx context.Context, vendorID string) (*models.SettingsResponse, error) {
	settings, err := s.Load(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// Update сохраняет новую вместимость слота
// Уже записанный спрос не пересчитывается: слот может оказаться заполнен сверх нового лимита
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: vendor=%s", req.VendorID)

	if req.VendorID == "" {
		return nil, fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}
	if req.MaxPerSlot == nil {
		return nil, fmt.Errorf("%w: maxPerSlot is required", ErrInvalidInput)
	}
	if *req.MaxPerSlot < domain.MinMaxPerSlot || *req.MaxPerSlot > domain.MaxMaxPerSlot {
		s.logger.Warn("Update: maxPerSlot=%d out of range", *req.MaxPerSlot)
		return nil, fmt.Errorf("%w: maxPerSlot must be between %d and %d",
			ErrInvalidInput, domain.MinMaxPerSlot, domain.MaxMaxPerSlot)
	}

	saved, err := s.settingsRepo.Upsert(ctx, &domain.VendorSettings{
		VendorID:   req.VendorID,
		MaxPerSlot: *req.MaxPerSlot,
	})
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: vendor=%s maxPerSlot=%d", saved.VendorID, saved.MaxPerSlot)
	return models.FromDomainSettings(saved), nil
}
