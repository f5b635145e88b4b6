package get_day_view

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	getDayView "github.com/m04kA/SMC-SlotService/internal/usecase/get_day_view"
)

const (
	msgMissingUserID = "отсутствует ID вендора"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput  = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetDayViewUseCase
	logger  Logger
}

func NewHandler(useCase GetDayViewUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/days/{date}
// Часы работы, сетка слотов с загрузкой и вместимость на дату
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /days/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.PathDate(r)
	if err != nil {
		h.logger.Warn("GET /days/{date} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getDayView.Request{VendorID: vendorID, Date: date})
	if err != nil {
		if errors.Is(err, getDayView.ErrInvalidInput) {
			h.logger.Warn("GET /days/{date} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}

		h.logger.Error("GET /days/{date} - Failed to build day view: vendor=%s, error=%v", vendorID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
