package hours

import "errors"

var (
	// ErrInvalidConfiguration возвращается при некорректных часах работы (время, длительность слота)
	ErrInvalidConfiguration = errors.New("hours.service: invalid configuration")

	// ErrInvalidInput возвращается при некорректных входных данных (вендор, дата)
	ErrInvalidInput = errors.New("hours.service: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("hours.service: internal error")
)
