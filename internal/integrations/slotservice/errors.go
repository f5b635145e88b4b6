package slotservice

import "errors"

var (
	// ErrCapacityExceeded возвращается при 409: слот заполнен
	ErrCapacityExceeded = errors.New("slotservice client: slot is full")

	// ErrInvalidRequest возвращается при 400: некорректные дата, слот или delta
	ErrInvalidRequest = errors.New("slotservice client: invalid request")

	// ErrUnauthorized возвращается при 401: сервер не принял ID вендора
	ErrUnauthorized = errors.New("slotservice client: unauthorized")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("slotservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("slotservice client: invalid response")
)
