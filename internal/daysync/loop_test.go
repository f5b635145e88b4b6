package daysync

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

const testVendor = "8a6e0804-2bd0-4672-b79d-d97027f9071a"

var (
	day1 = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	slotA = types.MustTimeString("18:30")
	slotB = types.MustTimeString("18:45")
)

// fakeServer хранит загрузку по дням и отдает ее как сервер
type fakeServer struct {
	mu        sync.Mutex
	limit     map[string]int
	used      map[string]map[types.TimeString]int
	loadErr   error
	loads     int
	submitErr error

	loadGate    map[string]chan struct{}
	loadEntered chan string
	submitGate  chan struct{}
	submitted   chan struct{}
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		limit: map[string]int{},
		used:  map[string]map[types.TimeString]int{},
	}
}

func (f *fakeServer) LoadDay(ctx context.Context, vendorID string, date time.Time) (*View, error) {
	key := types.FormatDate(date)

	f.mu.Lock()
	f.loads++
	gate := f.loadGate[key]
	entered := f.loadEntered
	f.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- key
		}
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}

	limit, ok := f.limit[key]
	if !ok {
		limit = 10
	}

	view := &View{MaxPerSlot: limit}
	for _, slot := range []types.TimeString{slotA, slotB} {
		used := f.used[key][slot]
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		view.Slots = append(view.Slots, Slot{Time: slot, Used: used, Remaining: remaining, Full: remaining == 0})
	}
	return view, nil
}

func (f *fakeServer) SubmitDelta(ctx context.Context, vendorID string, date time.Time, slot types.TimeString, delta int) error {
	f.mu.Lock()
	gate := f.submitGate
	submitted := f.submitted
	f.mu.Unlock()

	if submitted != nil {
		submitted <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return f.submitErr
	}

	key := types.FormatDate(date)
	if f.used[key] == nil {
		f.used[key] = map[types.TimeString]int{}
	}
	next := f.used[key][slot] + delta
	if next < 0 {
		next = 0
	}
	f.used[key][slot] = next
	return nil
}

func (f *fakeServer) setUsed(date time.Time, slot types.TimeString, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := types.FormatDate(date)
	if f.used[key] == nil {
		f.used[key] = map[types.TimeString]int{}
	}
	f.used[key][slot] = qty
}

func (f *fakeServer) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func slotUsed(t *testing.T, s Snapshot, slot types.TimeString) int {
	t.Helper()
	require.NotNil(t, s.View)
	for _, sl := range s.View.Slots {
		if sl.Time == slot {
			return sl.Used
		}
	}
	t.Fatalf("slot %s not found", slot)
	return 0
}

func newLoadedLoop(t *testing.T, srv *fakeServer) *Loop {
	t.Helper()

	loop := NewLoop(srv, srv, logger.NewNop())
	require.NoError(t, loop.SetVendor(context.Background(), testVendor))
	require.NoError(t, loop.SetDate(context.Background(), day1))
	return loop
}

func TestLoop_SetDate_LoadingThenIdle(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 3)

	loop := NewLoop(srv, srv, logger.NewNop())

	var states []State
	loop.OnChange(func(s Snapshot) {
		states = append(states, s.State)
	})

	require.NoError(t, loop.SetVendor(context.Background(), testVendor))
	states = nil

	require.NoError(t, loop.SetDate(context.Background(), day1))

	assert.Equal(t, []State{StateLoading, StateIdle}, states)

	snap := loop.Snapshot()
	assert.Equal(t, day1, snap.Date)
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, 3, slotUsed(t, snap, slotA))
	assert.NoError(t, snap.LastError)
}

func TestLoop_RefreshWithoutVendor(t *testing.T) {
	srv := newFakeServer()
	loop := NewLoop(srv, srv, logger.NewNop())

	err := loop.SetDate(context.Background(), day1)

	assert.ErrorIs(t, err, ErrNoVendor)
	assert.Equal(t, 0, srv.loadCount())
}

func TestLoop_StaleRefreshDiscarded(t *testing.T) {
	srv := newFakeServer()
	srv.limit[types.FormatDate(day1)] = 5
	srv.limit[types.FormatDate(day2)] = 7

	loop := NewLoop(srv, srv, logger.NewNop())
	require.NoError(t, loop.SetVendor(context.Background(), testVendor))

	gate := make(chan struct{})
	srv.mu.Lock()
	srv.loadGate = map[string]chan struct{}{types.FormatDate(day1): gate}
	srv.loadEntered = make(chan string, 1)
	srv.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- loop.SetDate(context.Background(), day1)
	}()

	// загрузка day1 висит, пользователь переключается на day2
	<-srv.loadEntered
	require.NoError(t, loop.SetDate(context.Background(), day2))
	close(gate)

	assert.ErrorIs(t, <-done, ErrStaleRefresh)

	snap := loop.Snapshot()
	assert.Equal(t, day2, snap.Date)
	require.NotNil(t, snap.View)
	assert.Equal(t, 7, snap.View.MaxPerSlot)
	assert.Equal(t, StateIdle, snap.State)
}

func TestLoop_FailedRefreshKeepsView(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 4)
	loop := newLoadedLoop(t, srv)

	loadErr := errors.New("connection refused")
	srv.mu.Lock()
	srv.loadErr = loadErr
	srv.mu.Unlock()

	err := loop.Refresh(context.Background())
	require.ErrorIs(t, err, loadErr)

	snap := loop.Snapshot()
	assert.ErrorIs(t, snap.LastError, loadErr)
	assert.Equal(t, 4, slotUsed(t, snap, slotA))

	// следующая успешная загрузка сбрасывает ошибку
	srv.mu.Lock()
	srv.loadErr = nil
	srv.mu.Unlock()
	srv.setUsed(day1, slotA, 6)

	require.NoError(t, loop.Refresh(context.Background()))
	snap = loop.Snapshot()
	assert.NoError(t, snap.LastError)
	assert.Equal(t, 6, slotUsed(t, snap, slotA))
}

func TestLoop_Mutate_ConfirmedByRefresh(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 2)
	loop := newLoadedLoop(t, srv)

	require.NoError(t, loop.Mutate(context.Background(), slotA, 3))

	snap := loop.Snapshot()
	assert.Equal(t, 5, slotUsed(t, snap, slotA))
	assert.Empty(t, snap.Unconfirmed)
}

func TestLoop_Mutate_RevertedOnRejection(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 2)
	loop := newLoadedLoop(t, srv)

	rejected := errors.New("slot is full")
	gate := make(chan struct{})
	srv.mu.Lock()
	srv.submitGate = gate
	srv.submitted = make(chan struct{}, 1)
	srv.submitErr = rejected
	srv.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- loop.Mutate(context.Background(), slotA, 1)
	}()

	<-srv.submitted
	snap := loop.Snapshot()
	assert.Equal(t, 3, slotUsed(t, snap, slotA))
	assert.True(t, snap.Unconfirmed[slotA])

	close(gate)
	assert.ErrorIs(t, <-done, rejected)

	snap = loop.Snapshot()
	assert.Equal(t, 2, slotUsed(t, snap, slotA))
	assert.Empty(t, snap.Unconfirmed)
}

func TestLoop_Mutate_InFlightSurvivesRefresh(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 2)
	loop := newLoadedLoop(t, srv)

	gate := make(chan struct{})
	srv.mu.Lock()
	srv.submitGate = gate
	srv.submitted = make(chan struct{}, 1)
	srv.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- loop.Mutate(context.Background(), slotA, 1)
	}()
	<-srv.submitted

	// сервер еще не видел изменение, локальное значение не должно откатиться
	require.NoError(t, loop.Refresh(context.Background()))
	snap := loop.Snapshot()
	assert.Equal(t, 3, slotUsed(t, snap, slotA))
	assert.True(t, snap.Unconfirmed[slotA])

	close(gate)
	require.NoError(t, <-done)

	snap = loop.Snapshot()
	assert.Equal(t, 3, slotUsed(t, snap, slotA))
	assert.Empty(t, snap.Unconfirmed)
}

func TestLoop_Mutate_LocalChecks(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 10)

	loop := NewLoop(srv, srv, logger.NewNop())
	assert.ErrorIs(t, loop.Mutate(context.Background(), slotA, 1), ErrNoVendor)

	loop = newLoadedLoop(t, srv)

	srv.mu.Lock()
	srv.submitted = make(chan struct{}, 1)
	srv.mu.Unlock()

	assert.ErrorIs(t, loop.Mutate(context.Background(), slotA, 0), ErrInvalidDelta)
	assert.ErrorIs(t, loop.Mutate(context.Background(), types.MustTimeString("09:00"), 1), ErrUnknownSlot)
	assert.ErrorIs(t, loop.Mutate(context.Background(), slotA, 1), ErrCapacityExceeded)
	assert.Empty(t, srv.submitted, "server must not be called")
}

func TestLoop_Mutate_DeltaOutOfRange(t *testing.T) {
	srv := newFakeServer()
	srv.setUsed(day1, slotA, 4)
	loop := newLoadedLoop(t, srv)

	srv.mu.Lock()
	srv.submitted = make(chan struct{}, 1)
	srv.mu.Unlock()

	for _, delta := range []int{math.MaxInt, math.MinInt, domain.MaxMaxPerSlot + 1} {
		assert.ErrorIs(t, loop.Mutate(context.Background(), slotA, delta), ErrInvalidDelta, "delta=%d", delta)
	}
	// в диапазоне, но больше свободного места: отказ локально
	assert.ErrorIs(t, loop.Mutate(context.Background(), slotA, domain.MaxMaxPerSlot), ErrCapacityExceeded)

	snap := loop.Snapshot()
	assert.Equal(t, 4, slotUsed(t, snap, slotA))
	assert.Empty(t, snap.Unconfirmed)
	assert.Empty(t, srv.submitted, "server must not be called")
}

func TestView_AdjustClampsAtZero(t *testing.T) {
	view := &View{MaxPerSlot: 10, Slots: []Slot{{Time: slotA, Used: 3, Remaining: 7}}}

	applied := view.adjust(0, -domain.MaxMaxPerSlot)

	assert.Equal(t, -3, applied)
	assert.Equal(t, 0, view.Slots[0].Used)
	assert.Equal(t, 10, view.Slots[0].Remaining)
	assert.False(t, view.Slots[0].Full)
}

func TestLoop_Mutate_BeforeLoad(t *testing.T) {
	srv := newFakeServer()
	srv.loadErr = errors.New("timeout")

	loop := NewLoop(srv, srv, logger.NewNop())
	require.Error(t, loop.SetVendor(context.Background(), testVendor))

	assert.ErrorIs(t, loop.Mutate(context.Background(), slotA, 1), ErrNotLoaded)
}

func TestLoop_Run(t *testing.T) {
	srv := newFakeServer()
	loop := NewLoop(srv, srv, logger.NewNop(), WithInterval(10*time.Millisecond))
	require.NoError(t, loop.SetVendor(context.Background(), testVendor))

	initial := srv.loadCount()
	srv.setUsed(loop.Snapshot().Date, slotB, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return srv.loadCount() >= initial+2
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 4, slotUsed(t, loop.Snapshot(), slotB))
}
