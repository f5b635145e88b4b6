package models

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
)

// UpdateSettingsRequest запрос на изменение вместимости слота
type UpdateSettingsRequest struct {
	VendorID   string `json:"-"`
	MaxPerSlot *int   `json:"maxPerSlot"`
}

// SettingsResponse настройки вендора
type SettingsResponse struct {
	VendorID   string    `json:"vendorId"`
	MaxPerSlot int       `json:"maxPerSlot"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.VendorSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	return &SettingsResponse{
		VendorID:   s.VendorID,
		MaxPerSlot: s.MaxPerSlot,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
