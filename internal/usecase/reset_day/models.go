package reset_day

import "time"

// Request модель запроса на сброс спроса за день
type Request struct {
	VendorID string
	Date     time.Time
}

// Response количество удаленных строк спроса
type Response struct {
	Date    time.Time
	Deleted int64
}
