package apply_delta

import "errors"

var (
	// ErrCapacityExceeded возвращается, когда новое количество превысило бы вместимость слота
	ErrCapacityExceeded = errors.New("apply_delta.usecase: slot capacity exceeded")

	// ErrInvalidSlot возвращается, когда время не входит в сетку слотов дня (или день закрыт)
	ErrInvalidSlot = errors.New("apply_delta.usecase: slot is not available on this date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("apply_delta.usecase: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("apply_delta.usecase: internal error")
)
