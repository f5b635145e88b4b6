package daysync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// DefaultInterval период фонового обновления
const DefaultInterval = 5 * time.Second

type mutation struct {
	slot    types.TimeString
	delta   int
	applied int
	acked   bool
	ackSeq  uint64
}

// Loop держит локальную копию дня и периодически сверяет ее с сервером.
// Изменения применяются локально сразу и подтверждаются следующей успешной загрузкой.
type Loop struct {
	loader   DayLoader
	mutator  Mutator
	interval time.Duration
	logger   Logger
	now      func() time.Time

	mu          sync.Mutex
	onChange    func(Snapshot)
	vendorID    string
	date        time.Time
	state       State
	generation  uint64
	ackSeq      uint64
	view        *View
	pending     []*mutation
	lastErr     error
	lastRefresh time.Time
}

// Option настройка цикла
type Option func(*Loop)

// WithInterval задает период фонового обновления
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// NewLoop создает цикл для текущей даты
func NewLoop(loader DayLoader, mutator Mutator, logger Logger, opts ...Option) *Loop {
	l := &Loop{
		loader:   loader,
		mutator:  mutator,
		interval: DefaultInterval,
		logger:   logger,
		now:      time.Now,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.date = types.DateOnly(l.now())
	return l
}

// OnChange подписывает на изменения состояния; callback вызывается вне блокировки
func (l *Loop) OnChange(fn func(Snapshot)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Snapshot возвращает копию текущего состояния
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// SetVendor меняет вендора: состояние сбрасывается и день загружается заново
func (l *Loop) SetVendor(ctx context.Context, vendorID string) error {
	l.mu.Lock()
	l.vendorID = vendorID
	l.resetLocked()
	l.mu.Unlock()

	return l.refresh(ctx, true)
}

// SetDate переключает просматриваемую дату и загружает ее
func (l *Loop) SetDate(ctx context.Context, date time.Time) error {
	l.mu.Lock()
	l.date = types.DateOnly(date)
	l.resetLocked()
	l.mu.Unlock()

	return l.refresh(ctx, true)
}

// Refresh загружает день без перехода в Loading
func (l *Loop) Refresh(ctx context.Context) error {
	return l.refresh(ctx, false)
}

// Run обновляет день с периодом interval, пока ctx не отменен
// Тик пропускается, если идет загрузка после смены даты или вендора
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !l.isIdle() {
				continue
			}
			if err := l.Refresh(ctx); err != nil && ctx.Err() == nil {
				l.logger.Warn("daysync: background refresh failed: %v", err)
			}
		}
	}
}

// Mutate применяет delta локально, затем отправляет на сервер.
// При отказе локальное изменение откатывается и возвращается ошибка.
func (l *Loop) Mutate(ctx context.Context, slot types.TimeString, delta int) error {
	if delta == 0 || delta > domain.MaxMaxPerSlot || delta < -domain.MaxMaxPerSlot {
		return ErrInvalidDelta
	}

	l.mu.Lock()
	if l.vendorID == "" {
		l.mu.Unlock()
		return ErrNoVendor
	}
	if l.view == nil {
		l.mu.Unlock()
		return ErrNotLoaded
	}
	idx := l.view.slotIndex(slot)
	if idx < 0 {
		l.mu.Unlock()
		return ErrUnknownSlot
	}
	if delta > l.view.MaxPerSlot-l.view.Slots[idx].Used {
		l.mu.Unlock()
		return ErrCapacityExceeded
	}

	m := &mutation{slot: slot, delta: delta}
	m.applied = l.view.adjust(idx, delta)
	l.pending = append(l.pending, m)

	gen := l.generation
	vendorID, date := l.vendorID, l.date
	snap := l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)

	err := l.mutator.SubmitDelta(ctx, vendorID, date, slot, delta)

	l.mu.Lock()
	if gen != l.generation {
		// дата или вендор сменились, локальное состояние уже сброшено
		l.mu.Unlock()
		return err
	}

	if err != nil {
		l.removePendingLocked(m)
		if i := l.view.slotIndex(slot); i >= 0 {
			l.view.adjust(i, -m.applied)
		}
		snap = l.snapshotLocked()
		l.mu.Unlock()
		l.notify(snap)

		l.logger.Warn("daysync: delta %+d on %s rejected: %v", delta, slot, err)
		return err
	}

	l.ackSeq++
	m.acked = true
	m.ackSeq = l.ackSeq
	l.mu.Unlock()

	// подтверждаем изменение свежей загрузкой
	if err := l.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleRefresh) {
		l.logger.Warn("daysync: refresh after delta failed: %v", err)
	}
	return nil
}

func (l *Loop) refresh(ctx context.Context, loading bool) error {
	l.mu.Lock()
	if l.vendorID == "" {
		l.mu.Unlock()
		return ErrNoVendor
	}
	gen := l.generation
	startSeq := l.ackSeq
	vendorID, date := l.vendorID, l.date

	var snap Snapshot
	if loading {
		l.state = StateLoading
		snap = l.snapshotLocked()
	}
	l.mu.Unlock()
	if loading {
		l.notify(snap)
	}

	view, err := l.loader.LoadDay(ctx, vendorID, date)

	l.mu.Lock()
	if gen != l.generation {
		l.mu.Unlock()
		return ErrStaleRefresh
	}

	if loading {
		l.state = StateIdle
	}

	if err != nil {
		l.lastErr = err
		snap = l.snapshotLocked()
		l.mu.Unlock()
		l.notify(snap)

		l.logger.Warn("daysync: failed to load %s: %v", types.FormatDate(date), err)
		return err
	}

	// изменения, подтвержденные до начала загрузки, уже учтены сервером
	kept := l.pending[:0]
	for _, m := range l.pending {
		if m.acked && m.ackSeq <= startSeq {
			continue
		}
		kept = append(kept, m)
	}
	l.pending = kept

	// остальные накладываем поверх свежего состояния
	for _, m := range l.pending {
		m.applied = 0
		if i := view.slotIndex(m.slot); i >= 0 {
			m.applied = view.adjust(i, m.delta)
		}
	}

	l.view = view
	l.lastErr = nil
	l.lastRefresh = l.now()
	snap = l.snapshotLocked()
	l.mu.Unlock()
	l.notify(snap)

	return nil
}

func (l *Loop) isIdle() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateIdle
}

func (l *Loop) resetLocked() {
	l.generation++
	l.view = nil
	l.pending = nil
	l.lastErr = nil
	l.lastRefresh = time.Time{}
	l.state = StateIdle
}

func (l *Loop) removePendingLocked(target *mutation) {
	for i, m := range l.pending {
		if m == target {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return
		}
	}
}

func (l *Loop) snapshotLocked() Snapshot {
	unconfirmed := make(map[types.TimeString]bool, len(l.pending))
	for _, m := range l.pending {
		unconfirmed[m.slot] = true
	}

	return Snapshot{
		VendorID:    l.vendorID,
		Date:        l.date,
		State:       l.state,
		View:        l.view.clone(),
		Unconfirmed: unconfirmed,
		LastError:   l.lastErr,
		LastRefresh: l.lastRefresh,
	}
}

func (l *Loop) notify(s Snapshot) {
	l.mu.Lock()
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}
