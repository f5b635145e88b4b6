package apply_delta

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	applyDelta "github.com/m04kA/SMC-SlotService/internal/usecase/apply_delta"
)

const (
	msgMissingUserID      = "отсутствует ID вендора"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры: delta от -1000 до 1000 и не 0, время слота HH:MM"
	msgInvalidSlot        = "слот недоступен в эту дату"
	msgCapacityExceeded   = "слот заполнен"
)

type Handler struct {
	useCase ApplyDeltaUseCase
	logger  Logger
}

func NewHandler(useCase ApplyDeltaUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/days/{date}/slots/{slot}/delta
// Body: {"delta": n, "note": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /days/{date}/slots/{slot}/delta - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	date, err := handlers.PathDate(r)
	if err != nil {
		h.logger.Warn("POST /days/{date}/slots/{slot}/delta - %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	slot := mux.Vars(r)["slot"]

	var req ApplyDeltaRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /days/{date}/slots/{slot}/delta - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(vendorID, date, slot))
	if err != nil {
		switch {
		case errors.Is(err, applyDelta.ErrCapacityExceeded):
			h.logger.Warn("POST /days/{date}/slots/{slot}/delta - Capacity exceeded: vendor=%s, slot=%s", vendorID, slot)
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, applyDelta.ErrInvalidSlot):
			h.logger.Warn("POST /days/{date}/slots/{slot}/delta - Invalid slot: vendor=%s, slot=%s", vendorID, slot)
			handlers.RespondBadRequest(w, msgInvalidSlot)

		case errors.Is(err, applyDelta.ErrInvalidInput):
			h.logger.Warn("POST /days/{date}/slots/{slot}/delta - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /days/{date}/slots/{slot}/delta - Failed to apply delta: vendor=%s, error=%v", vendorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
