package hours

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	hoursRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/hours"
	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// ruleLookupLimit берем два правила, чтобы заметить совпадение start_day
const ruleLookupLimit = 2

// Service сервис определения и сохранения часов работы
type Service struct {
	hoursRepo HoursRepository
	defaults  domain.OpeningHours
	logger    Logger
}

// NewService создает новый экземпляр сервиса часов работы
// defaults используются, когда для даты нет ни исключения, ни правила
func NewService(hoursRepo HoursRepository, defaults domain.OpeningHours, logger Logger) *Service {
	return &Service{
		hoursRepo: hoursRepo,
		defaults:  defaults,
		logger:    logger,
	}
}

// Resolve определяет действующие часы работы на дату
// Приоритет: исключение на дату > последнее правило с start_day <= day > значения по умолчанию
// Ничего не записывает
func (s *Service) Resolve(ctx context.Context, vendorID string, day time.Time) (*domain.EffectiveHours, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}
	day = types.DateOnly(day)

	// 1. Исключение на конкретную дату
	override, err := s.hoursRepo.GetOverride(ctx, vendorID, day)
	if err != nil && !errors.Is(err, hoursRepo.ErrOverrideNotFound) {
		s.logger.Error("Resolve: failed to get override for vendor=%s, day=%s: %v", vendorID, types.FormatDate(day), err)
		return nil, fmt.Errorf("%w: Resolve - get override: %w", ErrInternal, err)
	}
	if override != nil {
		return &domain.EffectiveHours{Day: day, OpeningHours: override.OpeningHours, Source: domain.SourceOverride}, nil
	}

	// 2. Самое позднее правило, начавшее действовать не позже day
	rules, err := s.hoursRepo.GetMostRecentBefore(ctx, vendorID, day, ruleLookupLimit)
	if err != nil {
		s.logger.Error("Resolve: failed to get rules for vendor=%s, day=%s: %v", vendorID, types.FormatDate(day), err)
		return nil, fmt.Errorf("%w: Resolve - get rules: %w", ErrInternal, err)
	}
	if len(rules) > 0 {
		chosen := rules[0]
		if len(rules) > 1 && rules[1].StartDay.Equal(chosen.StartDay) {
			s.logger.Warn("Resolve: data integrity anomaly: vendor=%s has several rules starting %s, using id=%d",
				vendorID, types.FormatDate(chosen.StartDay), chosen.ID)
		}
		return &domain.EffectiveHours{Day: day, OpeningHours: chosen.OpeningHours, Source: domain.SourceRule}, nil
	}

	// 3. Значения по умолчанию
	return &domain.EffectiveHours{Day: day, OpeningHours: s.defaults, Source: domain.SourceDefault}, nil
}

// GetForDay возвращает действующие часы работы в виде DTO
func (s *Service) GetForDay(ctx context.Context, vendorID string, day time.Time) (*models.HoursResponse, error) {
	hours, err := s.Resolve(ctx, vendorID, day)
	if err != nil {
		return nil, err
	}
	return models.FromEffectiveHours(hours), nil
}

// Save сохраняет часы работы в зависимости от scope запроса
func (s *Service) Save(ctx context.Context, req *models.SaveHoursRequest) (*models.HoursResponse, error) {
	switch req.Scope {
	case domain.ScopeDay:
		return s.SaveForDay(ctx, req)
	case domain.ScopeOnward:
		return s.SaveFromDay(ctx, req)
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, req.Scope)
	}
}

// SaveForDay сохраняет исключение только для одного дня
func (s *Service) SaveForDay(ctx context.Context, req *models.SaveHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("SaveForDay: vendor=%s, day=%s", req.VendorID, types.FormatDate(req.Day))

	if err := validateSaveRequest(req); err != nil {
		s.logger.Warn("SaveForDay: validation failed: %v", err)
		return nil, err
	}

	override := &domain.DateOverride{
		VendorID:     req.VendorID,
		Day:          types.DateOnly(req.Day),
		OpeningHours: req.ToOpeningHours(),
	}

	saved, err := s.hoursRepo.UpsertOverride(ctx, override)
	if err != nil {
		s.logger.Error("SaveForDay: repository error: %v", err)
		return nil, fmt.Errorf("%w: SaveForDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SaveForDay: saved override id=%d", saved.ID)
	return models.FromEffectiveHours(&domain.EffectiveHours{
		Day:          saved.Day,
		OpeningHours: saved.OpeningHours,
		Source:       domain.SourceOverride,
	}), nil
}

// SaveFromDay сохраняет правило, действующее с указанного дня и далее
// Правило перекрывается только исключениями на конкретные даты и более поздними правилами
func (s *Service) SaveFromDay(ctx context.Context, req *models.SaveHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("SaveFromDay: vendor=%s, startDay=%s", req.VendorID, types.FormatDate(req.Day))

	if err := validateSaveRequest(req); err != nil {
		s.logger.Warn("SaveFromDay: validation failed: %v", err)
		return nil, err
	}

	rule := &domain.StandingRule{
		VendorID:     req.VendorID,
		StartDay:     types.DateOnly(req.Day),
		OpeningHours: req.ToOpeningHours(),
	}

	saved, err := s.hoursRepo.UpsertRule(ctx, rule)
	if err != nil {
		s.logger.Error("SaveFromDay: repository error: %v", err)
		return nil, fmt.Errorf("%w: SaveFromDay - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SaveFromDay: saved rule id=%d", saved.ID)

	// Исключение на эту же дату по-прежнему имеет приоритет, поэтому возвращаем то, что действует
	return s.GetForDay(ctx, req.VendorID, req.Day)
}

// ListRules возвращает все правила вендора в порядке start_day
func (s *Service) ListRules(ctx context.Context, vendorID string) (*models.RuleListResponse, error) {
	if vendorID == "" {
		return nil, fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}

	rules, err := s.hoursRepo.ListRules(ctx, vendorID)
	if err != nil {
		s.logger.Error("ListRules: repository error for vendor=%s: %v", vendorID, err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}

	resp := &models.RuleListResponse{Rules: make([]models.RuleResponse, 0, len(rules))}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, models.FromDomainRule(r))
	}
	return resp, nil
}
