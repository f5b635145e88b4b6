package get_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/service/hours"
)

const (
	msgMissingUserID = "отсутствует ID вендора"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput  = "некорректные параметры запроса"
)

type Handler struct {
	service HoursService
	logger  Logger
}

func NewHandler(service HoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/days/{date}/hours
// Действующие часы работы и их источник (override, rule, default)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /days/{date}/hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.PathDate(r)
	if err != nil {
		h.logger.Warn("GET /days/{date}/hours - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetForDay(r.Context(), vendorID, date)
	if err != nil {
		if errors.Is(err, hours.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}

		h.logger.Error("GET /days/{date}/hours - Failed to resolve hours: vendor=%s, error=%v", vendorID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
