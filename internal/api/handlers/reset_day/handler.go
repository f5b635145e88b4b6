package reset_day

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	resetDay "github.com/m04kA/SMC-SlotService/internal/usecase/reset_day"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

const (
	msgMissingUserID = "отсутствует ID вендора"
	msgInvalidDate   = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput  = "некорректные параметры запроса"
)

// ResetDayResponse количество удаленных строк спроса
type ResetDayResponse struct {
	Date    string `json:"date"`
	Deleted int64  `json:"deleted"`
}

type Handler struct {
	useCase ResetDayUseCase
	logger  Logger
}

func NewHandler(useCase ResetDayUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/days/{date}/demand
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /days/{date}/demand - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.PathDate(r)
	if err != nil {
		h.logger.Warn("DELETE /days/{date}/demand - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &resetDay.Request{VendorID: vendorID, Date: date})
	if err != nil {
		if errors.Is(err, resetDay.ErrInvalidInput) {
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}

		h.logger.Error("DELETE /days/{date}/demand - Failed to reset day: vendor=%s, error=%v", vendorID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ResetDayResponse{
		Date:    types.FormatDate(result.Date),
		Deleted: result.Deleted,
	})
}
