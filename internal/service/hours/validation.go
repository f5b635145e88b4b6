package hours

import (
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// validateSaveRequest проверяет запрос до любой записи и нормализует время
func validateSaveRequest(req *models.SaveHoursRequest) error {
	if req.VendorID == "" {
		return fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}

	if req.Day.IsZero() {
		return fmt.Errorf("%w: day is required", ErrInvalidInput)
	}

	if err := validateOpeningHours(req.ToOpeningHours()); err != nil {
		return err
	}

	// Приводим "HH:MM:SS" к "HH:MM"
	req.OpenTime = types.MustTimeString(string(req.OpenTime))
	req.CloseTime = types.MustTimeString(string(req.CloseTime))
	return nil
}

// validateOpeningHours проверяет часы работы
// Закрытый день может содержать любое корректное время
func validateOpeningHours(h domain.OpeningHours) error {
	if h.SlotMinutes < domain.MinSlotMinutes || h.SlotMinutes > domain.MaxSlotMinutes {
		return fmt.Errorf("%w: slotMinutes must be between %d and %d",
			ErrInvalidConfiguration, domain.MinSlotMinutes, domain.MaxSlotMinutes)
	}

	if err := h.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: openTime: %v", ErrInvalidConfiguration, err)
	}

	if err := h.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: closeTime: %v", ErrInvalidConfiguration, err)
	}

	return nil
}
