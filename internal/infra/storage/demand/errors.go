package demand

import "errors"

var (
	// ErrDemandNotFound возвращается, когда строки спроса для слота нет (qty = 0)
	ErrDemandNotFound = errors.New("demand.repository: demand not found")

	// ErrInvalidQty возвращается при попытке сохранить строку с qty <= 0
	ErrInvalidQty = errors.New("demand.repository: qty must be positive")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("demand.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("demand.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("demand.repository: failed to scan row")
)
