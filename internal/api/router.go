package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-SlotService/internal/api/handlers"
	applyDeltaHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/apply_delta"
	getDayViewHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_day_view"
	getHoursHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_hours"
	getSettingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_settings"
	listRulesHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/list_rules"
	resetDayHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reset_day"
	saveHoursHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/save_hours"
	updateSettingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
)

// Handlers набор HTTP обработчиков сервиса
type Handlers struct {
	GetDayView     *getDayViewHandler.Handler
	GetHours       *getHoursHandler.Handler
	SaveHours      *saveHoursHandler.Handler
	ApplyDelta     *applyDeltaHandler.Handler
	ResetDay       *resetDayHandler.Handler
	GetSettings    *getSettingsHandler.Handler
	UpdateSettings *updateSettingsHandler.Handler
	ListRules      *listRulesHandler.Handler
}

// MetricsOptions настройки HTTP метрик; nil Collector отключает их
type MetricsOptions struct {
	Collector *metrics.Metrics
	Path      string
}

// NewRouter собирает маршруты API
func NewRouter(h Handlers, m MetricsOptions) *mux.Router {
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if m.Collector != nil {
		r.Use(middleware.MetricsMiddleware(m.Collector))
		r.Handle(m.Path, promhttp.Handler()).Methods(http.MethodGet)
	}

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// --- День ---
	api.HandleFunc("/days/{date}", h.GetDayView.Handle).Methods(http.MethodGet)
	api.HandleFunc("/days/{date}/hours", h.GetHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/days/{date}/hours", h.SaveHours.Handle).Methods(http.MethodPut)
	api.HandleFunc("/days/{date}/slots/{slot}/delta", h.ApplyDelta.Handle).Methods(http.MethodPost)
	api.HandleFunc("/days/{date}/demand", h.ResetDay.Handle).Methods(http.MethodDelete)

	// --- Настройки вендора ---
	api.HandleFunc("/settings", h.GetSettings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/settings", h.UpdateSettings.Handle).Methods(http.MethodPut)
	api.HandleFunc("/rules", h.ListRules.Handle).Methods(http.MethodGet)

	return r
}
