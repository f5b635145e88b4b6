package get_day_view

import (
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Request модель запроса на получение дня
type Request struct {
	VendorID string    // ID вендора (из X-User-ID)
	Date     time.Time // Дата без времени
}

// Response полное состояние дня: часы, слоты с загрузкой и вместимость
type Response struct {
	Date       time.Time
	Hours      domain.EffectiveHours
	MaxPerSlot int
	Slots      []Slot
	TotalUsed  int
	Orphans    []OrphanSlot // Спрос на слоты, которых нет в текущей сетке
}

// Slot модель слота с загрузкой
type Slot struct {
	StartTime types.TimeString
	Used      int
	Remaining int
	Full      bool
}

// OrphanSlot спрос, оставшийся после изменения часов работы
type OrphanSlot struct {
	StartTime types.TimeString
	Used      int
}
