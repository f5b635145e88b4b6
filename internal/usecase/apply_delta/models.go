package apply_delta

import (
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Request модель запроса на изменение количества в слоте
type Request struct {
	VendorID string           // ID вендора (из X-User-ID)
	Date     time.Time        // Дата без времени
	SlotTime types.TimeString // Начало слота, "HH:MM"
	Delta    int              // Изменение количества, может быть отрицательным
	Note     *string          // Комментарий к слоту, nil - оставить прежний
}

// Response результат применения изменения
type Response struct {
	Date        time.Time
	SlotTime    types.TimeString
	PreviousQty int
	Qty         int
	MaxPerSlot  int
	Remaining   int
	Deleted     bool // Строка удалена (или отсутствовала), количество стало 0
}
