package models

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Request модели

// SaveHoursRequest запрос на сохранение часов работы
// Scope определяет, сохраняется исключение на один день или правило "с этого дня и далее"
type SaveHoursRequest struct {
	VendorID    string            `json:"-"`
	Day         time.Time         `json:"-"`
	Scope       domain.HoursScope `json:"scope"`
	IsClosed    bool              `json:"isClosed"`
	OpenTime    types.TimeString  `json:"openTime"`
	CloseTime   types.TimeString  `json:"closeTime"`
	SlotMinutes int               `json:"slotMinutes"`
}

// ToOpeningHours возвращает часы работы из запроса
func (r *SaveHoursRequest) ToOpeningHours() domain.OpeningHours {
	return domain.OpeningHours{
		IsClosed:    r.IsClosed,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		SlotMinutes: r.SlotMinutes,
	}
}

// Response модели

// HoursResponse действующие часы работы на дату
type HoursResponse struct {
	Day         string             `json:"day"`
	IsClosed    bool               `json:"isClosed"`
	OpenTime    types.TimeString   `json:"openTime"`
	CloseTime   types.TimeString   `json:"closeTime"`
	SlotMinutes int                `json:"slotMinutes"`
	Source      domain.HoursSource `json:"source"`
}

// RuleResponse правило часов работы, действующее с StartDay
type RuleResponse struct {
	ID          int64            `json:"id"`
	StartDay    string           `json:"startDay"`
	IsClosed    bool             `json:"isClosed"`
	OpenTime    types.TimeString `json:"openTime"`
	CloseTime   types.TimeString `json:"closeTime"`
	SlotMinutes int              `json:"slotMinutes"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// Методы конвертации

// FromEffectiveHours конвертирует domain модель в DTO
func FromEffectiveHours(h *domain.EffectiveHours) *HoursResponse {
	if h == nil {
		return nil
	}

	return &HoursResponse{
		Day:         types.FormatDate(h.Day),
		IsClosed:    h.IsClosed,
		OpenTime:    h.OpenTime,
		CloseTime:   h.CloseTime,
		SlotMinutes: h.SlotMinutes,
		Source:      h.Source,
	}
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.StandingRule) RuleResponse {
	return RuleResponse{
		ID:          r.ID,
		StartDay:    types.FormatDate(r.StartDay),
		IsClosed:    r.IsClosed,
		OpenTime:    r.OpenTime,
		CloseTime:   r.CloseTime,
		SlotMinutes: r.SlotMinutes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
