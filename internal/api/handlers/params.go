package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// PathDate парсит переменную маршрута {date} в формате YYYY-MM-DD
func PathDate(r *http.Request) (time.Time, error) {
	raw := mux.Vars(r)["date"]
	date, err := types.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return date, nil
}
