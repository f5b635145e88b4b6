package domain

import "github.com/m04kA/SMC-SlotService/pkg/types"

// Значения по умолчанию, когда у вендора нет исключения на дату, правила или строки настроек
const (
	DefaultOpenTime    types.TimeString = "18:30"
	DefaultCloseTime   types.TimeString = "22:00"
	DefaultSlotMinutes                  = 15
	DefaultMaxPerSlot                   = 10
)

// Ограничения бизнес-валидации
const (
	MinSlotMinutes = 1
	MaxSlotMinutes = 480 // 8 часов
	MinMaxPerSlot  = 0
	MaxMaxPerSlot  = 1000
	MaxNoteLength  = 500
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// HoursSource уровень иерархии, из которого взяты действующие часы
type HoursSource string

const (
	SourceOverride HoursSource = "override"
	SourceRule     HoursSource = "rule"
	SourceDefault  HoursSource = "default"
)

// HoursScope область применения сохраняемых часов
type HoursScope string

const (
	// ScopeDay исключение ровно на одну дату
	ScopeDay HoursScope = "day"
	// ScopeOnward правило, действующее с этой даты и далее
	ScopeOnward HoursScope = "onward"
)

// Виды изменения спроса (метрики и ответы)
const (
	MutationUpsert = "upsert"
	MutationDelete = "delete"
)
