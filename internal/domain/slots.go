package domain

import "github.com/m04kA/SMC-SlotService/pkg/types"

// GenerateSlots возвращает начала слотов от open с шагом slotMinutes.
// Слот попадает в сетку, только если заканчивается не позже close: хвост короче шага
// слота не дает (18:00-18:10 при шаге 15 минут - пустая сетка).
// Некорректный ввод (шаг <= 0, open >= close, неразбираемое время) дает пустой результат.
func GenerateSlots(open, close types.TimeString, slotMinutes int) []types.TimeString {
	slots := make([]types.TimeString, 0)

	if slotMinutes <= 0 || open.Validate() != nil || close.Validate() != nil {
		return slots
	}

	current := open
	for current.IsBefore(close) {
		end, err := current.AddMinutes(slotMinutes)
		if err != nil || end.IsAfter(close) {
			break
		}

		slots = append(slots, current)
		current = end
	}

	return slots
}
