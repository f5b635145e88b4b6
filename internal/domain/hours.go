package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// OpeningHours общая часть исключений, правил и действующих часов
type OpeningHours struct {
	IsClosed    bool
	OpenTime    types.TimeString
	CloseTime   types.TimeString
	SlotMinutes int
}

// DefaultOpeningHours часы по умолчанию, когда ничего другого не задано
func DefaultOpeningHours() OpeningHours {
	return OpeningHours{
		IsClosed:    false,
		OpenTime:    DefaultOpenTime,
		CloseTime:   DefaultCloseTime,
		SlotMinutes: DefaultSlotMinutes,
	}
}

// DateOverride исключение на одну дату. Уникально по (VendorID, Day).
type DateOverride struct {
	ID       int64
	VendorID string
	Day      time.Time
	OpeningHours
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StandingRule действует с StartDay до начала следующего правила. Уникально по (VendorID, StartDay).
type StandingRule struct {
	ID       int64
	VendorID string
	StartDay time.Time
	OpeningHours
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveHours часы, действующие на дату после разрешения иерархии
type EffectiveHours struct {
	Day time.Time
	OpeningHours
	Source HoursSource
}

// Slots возвращает упорядоченные начала слотов; пусто, если закрыто
func (h *EffectiveHours) Slots() []types.TimeString {
	if h.IsClosed {
		return []types.TimeString{}
	}
	return GenerateSlots(h.OpenTime, h.CloseTime, h.SlotMinutes)
}

// HasSlot проверяет, что slot входит в сетку
func (h *EffectiveHours) HasSlot(slot types.TimeString) bool {
	for _, s := range h.Slots() {
		if s == slot {
			return true
		}
	}
	return false
}
