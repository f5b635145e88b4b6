package apply_delta

import (
	"fmt"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// validateRequest валидирует входные данные и нормализует время слота
func validateRequest(req *Request) error {
	if req.VendorID == "" {
		return fmt.Errorf("%w: vendorID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Delta == 0 {
		return fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}

	// |delta| больше максимальной вместимости не имеет смысла ни в одну сторону
	if req.Delta > domain.MaxMaxPerSlot || req.Delta < -domain.MaxMaxPerSlot {
		return fmt.Errorf("%w: delta must be within ±%d", ErrInvalidInput, domain.MaxMaxPerSlot)
	}

	slot, err := types.NewTimeStringFromString(string(req.SlotTime))
	if err != nil {
		return fmt.Errorf("%w: slot time: %v", ErrInvalidInput, err)
	}
	req.SlotTime = slot

	if req.Note != nil && len(*req.Note) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}
