package domain

import "time"

// VendorSettings вместимость слота вендора. Одна строка на вендора.
type VendorSettings struct {
	VendorID   string
	MaxPerSlot int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DefaultSettings настройки, которые вендор получает при первом обращении
func DefaultSettings(vendorID string) *VendorSettings {
	return &VendorSettings{
		VendorID:   vendorID,
		MaxPerSlot: DefaultMaxPerSlot,
	}
}
