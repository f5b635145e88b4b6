package types

import "time"

// DateFormat формат календарной даты (YYYY-MM-DD)
const DateFormat = "2006-01-02"

// ParseDate парсит дату в формате YYYY-MM-DD (UTC, без времени)
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}

// DateOnly обнуляет время, сохраняя календарную дату в UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate форматирует дату в YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
