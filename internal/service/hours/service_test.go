package hours

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-SlotService/internal/service/hours/models"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

const vendorID = "0b6f3c1e-7d2a-4f0e-9a55-2c1d8e4b7a10"

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

func setup() (*Service, *memory.Store) {
	store := memory.New()
	return NewService(store.Hours(), domain.DefaultOpeningHours(), logger.NewNop()), store
}

func saveRule(t *testing.T, svc *Service, start string, h domain.OpeningHours) {
	t.Helper()
	_, err := svc.SaveFromDay(context.Background(), &models.SaveHoursRequest{
		VendorID:    vendorID,
		Day:         day(t, start),
		Scope:       domain.ScopeOnward,
		IsClosed:    h.IsClosed,
		OpenTime:    h.OpenTime,
		CloseTime:   h.CloseTime,
		SlotMinutes: h.SlotMinutes,
	})
	require.NoError(t, err)
}

func TestResolve_DefaultWhenNothingStored(t *testing.T) {
	svc, _ := setup()

	h, err := svc.Resolve(context.Background(), vendorID, day(t, "2024-05-05"))
	require.NoError(t, err)

	assert.Equal(t, domain.SourceDefault, h.Source)
	assert.False(t, h.IsClosed)
	assert.Equal(t, types.TimeString("18:30"), h.OpenTime)
	assert.Equal(t, types.TimeString("22:00"), h.CloseTime)
	assert.Equal(t, 15, h.SlotMinutes)
}

func TestResolve_RuleCascade(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	january := domain.OpeningHours{OpenTime: "10:00", CloseTime: "14:00", SlotMinutes: 30}
	february := domain.OpeningHours{IsClosed: true, OpenTime: "00:00", CloseTime: "00:00", SlotMinutes: 15}
	saveRule(t, svc, "2024-01-01", january)
	saveRule(t, svc, "2024-02-01", february)

	tests := []struct {
		name   string
		day    string
		source domain.HoursSource
		hours  domain.OpeningHours
	}{
		{name: "before any rule", day: "2023-12-01", source: domain.SourceDefault, hours: domain.DefaultOpeningHours()},
		{name: "first rule start", day: "2024-01-01", source: domain.SourceRule, hours: january},
		{name: "inside first rule", day: "2024-01-31", source: domain.SourceRule, hours: january},
		{name: "second rule start", day: "2024-02-01", source: domain.SourceRule, hours: february},
		{name: "far after second rule", day: "2025-06-15", source: domain.SourceRule, hours: february},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := svc.Resolve(ctx, vendorID, day(t, tt.day))
			require.NoError(t, err)
			assert.Equal(t, tt.source, h.Source)
			assert.Equal(t, tt.hours, h.OpeningHours)
		})
	}
}

func TestResolve_OverrideWinsOverRule(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	saveRule(t, svc, "2024-01-01", domain.OpeningHours{OpenTime: "10:00", CloseTime: "14:00", SlotMinutes: 30})

	_, err := svc.SaveForDay(ctx, &models.SaveHoursRequest{
		VendorID:    vendorID,
		Day:         day(t, "2024-01-10"),
		Scope:       domain.ScopeDay,
		IsClosed:    true,
		OpenTime:    "10:00",
		CloseTime:   "14:00",
		SlotMinutes: 30,
	})
	require.NoError(t, err)

	h, err := svc.Resolve(ctx, vendorID, day(t, "2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOverride, h.Source)
	assert.True(t, h.IsClosed)
	assert.Empty(t, h.Slots())

	// соседние дни по-прежнему берут правило
	h, err = svc.Resolve(ctx, vendorID, day(t, "2024-01-11"))
	require.NoError(t, err)
	assert.Equal(t, domain.SourceRule, h.Source)
	assert.Len(t, h.Slots(), 8)
}

func TestResolve_VendorsAreIsolated(t *testing.T) {
	svc, _ := setup()

	saveRule(t, svc, "2024-01-01", domain.OpeningHours{OpenTime: "10:00", CloseTime: "14:00", SlotMinutes: 30})

	h, err := svc.Resolve(context.Background(), "another-vendor", day(t, "2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, domain.SourceDefault, h.Source)
}

func TestResolve_RuleTieIsDeterministicAndWarns(t *testing.T) {
	store := memory.New()
	log := &recordingLogger{}
	svc := NewService(store.Hours(), domain.DefaultOpeningHours(), log)

	start := day(t, "2024-03-01")
	store.Hours().InsertRuleUnchecked(domain.StandingRule{
		VendorID: vendorID, StartDay: start,
		OpeningHours: domain.OpeningHours{OpenTime: "09:00", CloseTime: "10:00", SlotMinutes: 20},
	})
	store.Hours().InsertRuleUnchecked(domain.StandingRule{
		VendorID: vendorID, StartDay: start,
		OpeningHours: domain.OpeningHours{OpenTime: "11:00", CloseTime: "12:00", SlotMinutes: 20},
	})

	for i := 0; i < 5; i++ {
		h, err := svc.Resolve(context.Background(), vendorID, day(t, "2024-03-05"))
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("09:00"), h.OpenTime)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	require.NotEmpty(t, log.warns)
	assert.Contains(t, log.warns[0], "data integrity anomaly")
}

func TestResolve_StoreFailure(t *testing.T) {
	svc, store := setup()
	store.SetFailure(errors.New("connection refused"))

	_, err := svc.Resolve(context.Background(), vendorID, day(t, "2024-01-01"))
	assert.ErrorIs(t, err, ErrInternal)
}

func TestSave_Validation(t *testing.T) {
	tests := []struct {
		name    string
		req     models.SaveHoursRequest
		wantErr error
	}{
		{
			name:    "zero slot minutes",
			req:     models.SaveHoursRequest{Scope: domain.ScopeDay, OpenTime: "10:00", CloseTime: "12:00", SlotMinutes: 0},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "slot minutes too large",
			req:     models.SaveHoursRequest{Scope: domain.ScopeOnward, OpenTime: "10:00", CloseTime: "12:00", SlotMinutes: 481},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "bad open time",
			req:     models.SaveHoursRequest{Scope: domain.ScopeDay, OpenTime: "25:00", CloseTime: "12:00", SlotMinutes: 15},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "bad close time",
			req:     models.SaveHoursRequest{Scope: domain.ScopeDay, OpenTime: "10:00", CloseTime: "noon", SlotMinutes: 15},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "unknown scope",
			req:     models.SaveHoursRequest{Scope: "week", OpenTime: "10:00", CloseTime: "12:00", SlotMinutes: 15},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setup()
			req := tt.req
			req.VendorID = vendorID
			req.Day = day(t, "2024-01-10")

			_, err := svc.Save(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)

			// ничего не записано
			_, err = store.Hours().GetOverride(context.Background(), vendorID, req.Day)
			assert.Error(t, err)
			rules, err := store.Hours().ListRules(context.Background(), vendorID)
			require.NoError(t, err)
			assert.Empty(t, rules)
		})
	}
}

func TestSave_NormalizesSeconds(t *testing.T) {
	svc, _ := setup()

	resp, err := svc.Save(context.Background(), &models.SaveHoursRequest{
		VendorID:    vendorID,
		Day:         day(t, "2024-01-10"),
		Scope:       domain.ScopeDay,
		OpenTime:    "17:00:00",
		CloseTime:   "21:30:00",
		SlotMinutes: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("17:00"), resp.OpenTime)
	assert.Equal(t, types.TimeString("21:30"), resp.CloseTime)
	assert.Equal(t, "2024-01-10", resp.Day)
}

func TestSaveFromDay_ReplacesRuleWithSameStart(t *testing.T) {
	svc, _ := setup()

	saveRule(t, svc, "2024-01-01", domain.OpeningHours{OpenTime: "10:00", CloseTime: "14:00", SlotMinutes: 30})
	saveRule(t, svc, "2024-01-01", domain.OpeningHours{OpenTime: "12:00", CloseTime: "15:00", SlotMinutes: 60})

	list, err := svc.ListRules(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, list.Rules, 1)
	assert.Equal(t, "2024-01-01", list.Rules[0].StartDay)
	assert.Equal(t, 60, list.Rules[0].SlotMinutes)
}

func TestSaveFromDay_ReportsOverrideWhenOneExists(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	_, err := svc.SaveForDay(ctx, &models.SaveHoursRequest{
		VendorID: vendorID, Day: day(t, "2024-04-01"), Scope: domain.ScopeDay,
		IsClosed: true, OpenTime: "18:30", CloseTime: "22:00", SlotMinutes: 15,
	})
	require.NoError(t, err)

	resp, err := svc.SaveFromDay(ctx, &models.SaveHoursRequest{
		VendorID: vendorID, Day: day(t, "2024-04-01"), Scope: domain.ScopeOnward,
		OpenTime: "12:00", CloseTime: "13:00", SlotMinutes: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOverride, resp.Source)
	assert.True(t, resp.IsClosed)
}
