package daysync

import "errors"

var (
	// ErrNoVendor возвращается, пока вендор не выбран
	ErrNoVendor = errors.New("daysync: vendor is not set")

	// ErrNotLoaded возвращается при изменении до первой успешной загрузки дня
	ErrNotLoaded = errors.New("daysync: day is not loaded")

	// ErrUnknownSlot возвращается, когда слота нет в текущей сетке
	ErrUnknownSlot = errors.New("daysync: slot is not in the current grid")

	// ErrInvalidDelta возвращается для delta == 0 и |delta| больше максимальной вместимости
	ErrInvalidDelta = errors.New("daysync: delta must be non-zero and within the capacity range")

	// ErrCapacityExceeded возвращается, когда по локальному состоянию слот уже заполнен
	ErrCapacityExceeded = errors.New("daysync: slot is full")

	// ErrStaleRefresh возвращается, когда результат загрузки отброшен из-за смены даты или вендора
	ErrStaleRefresh = errors.New("daysync: refresh result discarded")
)
