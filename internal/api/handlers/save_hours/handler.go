package save_hours

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/service/hours"
	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
)

const (
	msgMissingUserID        = "отсутствует ID вендора"
	msgInvalidDate          = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidConfiguration = "некорректные часы работы: время HH:MM, длительность слота от 1 до 480 минут"
	msgInvalidScope         = "scope должен быть day или onward"
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

// Handle PUT /api/v1/days/{date}/hours
// scope=day - исключение только на эту дату, scope=onward - правило с этой даты и далее
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /days/{date}/hours - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.PathDate(r)
	if err != nil {
		h.logger.Warn("PUT /days/{date}/hours - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req models.SaveHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /days/{date}/hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.VendorID = vendorID
	req.Day = date

	result, err := h.service.Save(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, hours.ErrInvalidConfiguration):
			h.logger.Warn("PUT /days/{date}/hours - Invalid configuration: %v", err)
			handlers.RespondBadRequest(w, msgInvalidConfiguration)

		case errors.Is(err, hours.ErrInvalidInput):
			h.logger.Warn("PUT /days/{date}/hours - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidScope)

		default:
			h.logger.Error("PUT /days/{date}/hours - Failed to save hours: vendor=%s, error=%v", vendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /days/{date}/hours - Saved: vendor=%s, date=%s, scope=%s", vendorID, result.Day, req.Scope)
	handlers.RespondJSON(w, http.StatusOK, result)
}
