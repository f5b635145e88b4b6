package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applyDeltaHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/apply_delta"
	getDayViewHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_day_view"
	getHoursHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_hours"
	getSettingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_settings"
	listRulesHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/list_rules"
	resetDayHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reset_day"
	saveHoursHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/save_hours"
	updateSettingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-SlotService/internal/api/middleware"
	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/memory"
	hoursService "github.com/m04kA/SMC-SlotService/internal/service/hours"
	settingsService "github.com/m04kA/SMC-SlotService/internal/service/settings"
	applyDeltaUC "github.com/m04kA/SMC-SlotService/internal/usecase/apply_delta"
	getDayViewUC "github.com/m04kA/SMC-SlotService/internal/usecase/get_day_view"
	resetDayUC "github.com/m04kA/SMC-SlotService/internal/usecase/reset_day"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
)

const vendorID = "0b6f3c1e-7d2a-4f0e-9a55-2c1d8e4b7a10"

func newTestServer(t *testing.T, m *metrics.Metrics) *httptest.Server {
	t.Helper()

	store := memory.New()
	log := logger.NewNop()

	hoursSvc := hoursService.NewService(store.Hours(), domain.DefaultOpeningHours(), log)
	settingsSvc := settingsService.NewService(store.Settings(), domain.DefaultMaxPerSlot, log)

	router := NewRouter(Handlers{
		GetDayView:     getDayViewHandler.NewHandler(getDayViewUC.NewUseCase(hoursSvc, settingsSvc, store.Demand(), log), log),
		GetHours:       getHoursHandler.NewHandler(hoursSvc, log),
		SaveHours:      saveHoursHandler.NewHandler(hoursSvc, log),
		ApplyDelta:     applyDeltaHandler.NewHandler(applyDeltaUC.NewUseCase(hoursSvc, settingsSvc, store.Demand(), store, m, log), log),
		ResetDay:       resetDayHandler.NewHandler(resetDayUC.NewUseCase(store.Demand(), m, log), log),
		GetSettings:    getSettingsHandler.NewHandler(settingsSvc, log),
		UpdateSettings: updateSettingsHandler.NewHandler(settingsSvc, log),
		ListRules:      listRulesHandler.NewHandler(hoursSvc, log),
	}, MetricsOptions{Collector: m, Path: "/metrics"})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, userID string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestAuth(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.EqualValues(t, http.StatusUnauthorized, body["code"])

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14", "not-a-uuid", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDayView(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "2024-06-14", body["date"])
	assert.EqualValues(t, 10, body["maxPerSlot"])
	slots := body["slots"].([]interface{})
	require.Len(t, slots, 14)
	assert.Equal(t, "18:30", slots[0].(map[string]interface{})["time"])

	hours := body["hours"].(map[string]interface{})
	assert.Equal(t, "default", hours["source"])

	resp, _ = do(t, srv, http.MethodGet, "/api/v1/days/14-06-2024", vendorID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestApplyDelta(t *testing.T) {
	srv := newTestServer(t, nil)
	path := "/api/v1/days/2024-06-14/slots/18:30/delta"

	resp, body := do(t, srv, http.MethodPost, path, vendorID, map[string]int{"delta": 9})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 9, body["qty"])

	resp, body = do(t, srv, http.MethodPost, path, vendorID, map[string]int{"delta": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["remaining"])

	resp, _ = do(t, srv, http.MethodPost, path, vendorID, map[string]int{"delta": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, path, vendorID, map[string]int{"delta": -10})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["deleted"])

	tests := []struct {
		name string
		path string
		body interface{}
	}{
		{name: "slot outside grid", path: "/api/v1/days/2024-06-14/slots/18:31/delta", body: map[string]int{"delta": 1}},
		{name: "zero delta", path: path, body: map[string]int{"delta": 0}},
		{name: "unknown field", path: path, body: map[string]int{"amount": 1}},
		{name: "bad slot format", path: "/api/v1/days/2024-06-14/slots/late/delta", body: map[string]int{"delta": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := do(t, srv, http.MethodPost, tt.path, vendorID, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHoursAndRules(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, _ := do(t, srv, http.MethodPut, "/api/v1/days/2024-06-14/hours", vendorID, map[string]interface{}{
		"scope": "day", "isClosed": false, "openTime": "12:00", "closeTime": "13:00", "slotMinutes": 0,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPut, "/api/v1/days/2024-06-01/hours", vendorID, map[string]interface{}{
		"scope": "onward", "isClosed": false, "openTime": "12:00", "closeTime": "14:00", "slotMinutes": 30,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rule", body["source"])

	resp, body = do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14/hours", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rule", body["source"])
	assert.Equal(t, "12:00", body["openTime"])

	resp, body = do(t, srv, http.MethodGet, "/api/v1/rules", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rules := body["rules"].([]interface{})
	require.Len(t, rules, 1)
	assert.Equal(t, "2024-06-01", rules[0].(map[string]interface{})["startDay"])

	resp, body = do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["slots"].([]interface{}), 4)
}

func TestSettingsAndResetDay(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/api/v1/settings", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 10, body["maxPerSlot"])

	resp, _ = do(t, srv, http.MethodPut, "/api/v1/settings", vendorID, map[string]int{"maxPerSlot": 1001})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPut, "/api/v1/settings", vendorID, map[string]int{"maxPerSlot": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["maxPerSlot"])

	resp, _ = do(t, srv, http.MethodPost, "/api/v1/days/2024-06-14/slots/19:00/delta", vendorID, map[string]int{"delta": 3})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for _, slot := range []string{"19:00", "19:15"} {
		resp, _ = do(t, srv, http.MethodPost, "/api/v1/days/2024-06-14/slots/"+slot+"/delta", vendorID, map[string]int{"delta": 2})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body = do(t, srv, http.MethodDelete, "/api/v1/days/2024-06-14/demand", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, body["deleted"])

	resp, body = do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14", vendorID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["totalUsed"])
}

func TestMetrics(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	srv := newTestServer(t, m)

	do(t, srv, http.MethodGet, "/api/v1/days/2024-06-14", vendorID, nil)
	do(t, srv, http.MethodPost, "/api/v1/days/2024-06-14/slots/18:30/delta", vendorID, map[string]int{"delta": 11})
	do(t, srv, http.MethodPost, "/api/v1/days/2024-06-14/slots/18:30/delta", vendorID, map[string]int{"delta": 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/days/{date}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CapacityRejections.WithLabelValues()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DemandMutations.WithLabelValues(domain.MutationUpsert)))
}
