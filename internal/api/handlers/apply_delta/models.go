package apply_delta

import (
	"time"

	applyDelta "github.com/m04kA/SMC-SlotService/internal/usecase/apply_delta"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// ApplyDeltaRequest HTTP модель запроса
type ApplyDeltaRequest struct {
	Delta int     `json:"delta"`
	Note  *string `json:"note,omitempty"`
}

// ApplyDeltaResponse HTTP модель ответа
type ApplyDeltaResponse struct {
	Date        string           `json:"date"`
	Time        types.TimeString `json:"time"`
	PreviousQty int              `json:"previousQty"`
	Qty         int              `json:"qty"`
	MaxPerSlot  int              `json:"maxPerSlot"`
	Remaining   int              `json:"remaining"`
	Deleted     bool             `json:"deleted"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ApplyDeltaRequest) ToUseCaseRequest(vendorID string, date time.Time, slot string) *applyDelta.Request {
	return &applyDelta.Request{
		VendorID: vendorID,
		Date:     date,
		SlotTime: types.TimeString(slot),
		Delta:    r.Delta,
		Note:     r.Note,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *applyDelta.Response) *ApplyDeltaResponse {
	return &ApplyDeltaResponse{
		Date:        types.FormatDate(resp.Date),
		Time:        resp.SlotTime,
		PreviousQty: resp.PreviousQty,
		Qty:         resp.Qty,
		MaxPerSlot:  resp.MaxPerSlot,
		Remaining:   resp.Remaining,
		Deleted:     resp.Deleted,
	}
}
