package domain

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// SlotDemand зафиксированное количество для (вендор, день, слот).
// Строка с Qty == 0 не хранится: отсутствие строки означает ноль.
type SlotDemand struct {
	ID        int64
	VendorID  string
	Day       time.Time
	SlotTime  types.TimeString
	Qty       int
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DemandLedger количество по времени начала слота за один день
type DemandLedger struct {
	used map[types.TimeString]int
}

// NewDemandLedger собирает ledger из строк спроса одного дня
func NewDemandLedger(rows []*SlotDemand) *DemandLedger {
	used := make(map[types.TimeString]int, len(rows))
	for _, row := range rows {
		if row == nil || row.Qty <= 0 {
			continue
		}
		used[row.SlotTime] += row.Qty
	}
	return &DemandLedger{used: used}
}

// UsedFor возвращает количество в слоте, 0 если строки нет
func (l *DemandLedger) UsedFor(slot types.TimeString) int {
	return l.used[slot]
}

// Remaining возвращает max(0, maxPerSlot - used)
func (l *DemandLedger) Remaining(slot types.TimeString, maxPerSlot int) int {
	remaining := maxPerSlot - l.UsedFor(slot)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Total возвращает сумму количества за день
func (l *DemandLedger) Total() int {
	total := 0
	for _, qty := range l.used {
		total += qty
	}
	return total
}

// Orphans возвращает слоты со спросом, которых нет в slots
// (например, часы дня изменили задним числом). Результат отсортирован по времени.
func (l *DemandLedger) Orphans(slots []types.TimeString) []types.TimeString {
	known := make(map[types.TimeString]struct{}, len(slots))
	for _, s := range slots {
		known[s] = struct{}{}
	}

	orphans := make([]types.TimeString, 0)
	for slot := range l.used {
		if _, ok := known[slot]; !ok {
			orphans = append(orphans, slot)
		}
	}

	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].IsBefore(orphans[j])
	})
	return orphans
}
