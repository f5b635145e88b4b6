package daysync

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// State состояние цикла
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
)

// View состояние дня, как его видит сервер
type View struct {
	Hours      domain.EffectiveHours
	MaxPerSlot int
	Slots      []Slot
	Orphans    []Slot
}

// Slot слот с загрузкой
type Slot struct {
	Time      types.TimeString
	Used      int
	Remaining int
	Full      bool
}

// Snapshot копия состояния цикла для отображения
type Snapshot struct {
	VendorID    string
	Date        time.Time
	State       State
	View        *View                     // nil до первой успешной загрузки
	Unconfirmed map[types.TimeString]bool // Слоты с локальными изменениями, ещё не подтвержденными загрузкой
	LastError   error                     // Ошибка последней загрузки; прежнее состояние при этом сохраняется
	LastRefresh time.Time
}

func (v *View) clone() *View {
	if v == nil {
		return nil
	}
	out := *v
	out.Slots = append([]Slot(nil), v.Slots...)
	out.Orphans = append([]Slot(nil), v.Orphans...)
	return &out
}

func (v *View) slotIndex(t types.TimeString) int {
	for i := range v.Slots {
		if v.Slots[i].Time == t {
			return i
		}
	}
	return -1
}

// adjust меняет загрузку слота и возвращает фактически примененное изменение (с учетом нижней границы 0)
func (v *View) adjust(i int, delta int) int {
	s := &v.Slots[i]
	next := 0
	if delta > -s.Used {
		next = s.Used + delta
	}
	applied := next - s.Used

	s.Used = next
	s.Remaining = v.MaxPerSlot - next
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	s.Full = s.Remaining == 0
	return applied
}
