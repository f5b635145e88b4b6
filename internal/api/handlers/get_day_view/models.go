package get_day_view

import (
	"github.com/m04kA/SMC-SlotService/internal/domain"
	getDayView "github.com/m04kA/SMC-SlotService/internal/usecase/get_day_view"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// DayViewResponse HTTP модель дня
type DayViewResponse struct {
	Date       string           `json:"date"`
	Hours      HoursResponse    `json:"hours"`
	MaxPerSlot int              `json:"maxPerSlot"`
	TotalUsed  int              `json:"totalUsed"`
	Slots      []SlotResponse   `json:"slots"`
	Orphans    []OrphanResponse `json:"orphans"`
}

// HoursResponse действующие часы работы
type HoursResponse struct {
	IsClosed    bool               `json:"isClosed"`
	OpenTime    types.TimeString   `json:"openTime"`
	CloseTime   types.TimeString   `json:"closeTime"`
	SlotMinutes int                `json:"slotMinutes"`
	Source      domain.HoursSource `json:"source"`
}

// SlotResponse слот с загрузкой
type SlotResponse struct {
	Time      types.TimeString `json:"time"`
	Used      int              `json:"used"`
	Remaining int              `json:"remaining"`
	Full      bool             `json:"full"`
}

// OrphanResponse спрос вне сетки слотов
type OrphanResponse struct {
	Time types.TimeString `json:"time"`
	Used int              `json:"used"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getDayView.Response) *DayViewResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Time:      s.StartTime,
			Used:      s.Used,
			Remaining: s.Remaining,
			Full:      s.Full,
		})
	}

	orphans := make([]OrphanResponse, 0, len(resp.Orphans))
	for _, o := range resp.Orphans {
		orphans = append(orphans, OrphanResponse{Time: o.StartTime, Used: o.Used})
	}

	return &DayViewResponse{
		Date: types.FormatDate(resp.Date),
		Hours: HoursResponse{
			IsClosed:    resp.Hours.IsClosed,
			OpenTime:    resp.Hours.OpenTime,
			CloseTime:   resp.Hours.CloseTime,
			SlotMinutes: resp.Hours.SlotMinutes,
			Source:      resp.Hours.Source,
		},
		MaxPerSlot: resp.MaxPerSlot,
		TotalUsed:  resp.TotalUsed,
		Slots:      slots,
		Orphans:    orphans,
	}
}
