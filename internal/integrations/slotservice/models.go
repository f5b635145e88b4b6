package slotservice

import (
	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// DayView модель дня из SlotService
type DayView struct {
	Date       string   `json:"date"`
	Hours      Hours    `json:"hours"`
	MaxPerSlot int      `json:"maxPerSlot"`
	TotalUsed  int      `json:"totalUsed"`
	Slots      []Slot   `json:"slots"`
	Orphans    []Orphan `json:"orphans"`
}

// Hours действующие часы работы
type Hours struct {
	IsClosed    bool               `json:"isClosed"`
	OpenTime    types.TimeString   `json:"openTime"`
	CloseTime   types.TimeString   `json:"closeTime"`
	SlotMinutes int                `json:"slotMinutes"`
	Source      domain.HoursSource `json:"source"`
}

// Slot слот с загрузкой
type Slot struct {
	Time      types.TimeString `json:"time"`
	Used      int              `json:"used"`
	Remaining int              `json:"remaining"`
	Full      bool             `json:"full"`
}

// Orphan спрос вне текущей сетки слотов
type Orphan struct {
	Time types.TimeString `json:"time"`
	Used int              `json:"used"`
}

// DeltaRequest тело запроса на изменение количества
type DeltaRequest struct {
	Delta int     `json:"delta"`
	Note  *string `json:"note,omitempty"`
}

// DeltaResult результат изменения количества
type DeltaResult struct {
	Date        string           `json:"date"`
	Time        types.TimeString `json:"time"`
	PreviousQty int              `json:"previousQty"`
	Qty         int              `json:"qty"`
	MaxPerSlot  int              `json:"maxPerSlot"`
	Remaining   int              `json:"remaining"`
	Deleted     bool             `json:"deleted"`
}

// ResetResult результат сброса дня
type ResetResult struct {
	Date    string `json:"date"`
	Deleted int64  `json:"deleted"`
}

// ErrorResponse модель ошибки от SlotService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
