package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	demandRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/demand"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

type demandRecord = domain.SlotDemand

// DemandRepository хранилище спроса в памяти
type DemandRepository struct {
	store *Store
}

func (r *DemandRepository) ListByDay(ctx context.Context, vendorID string, day time.Time) ([]*domain.SlotDemand, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	dayKey := types.FormatDate(day)
	rows := make([]*domain.SlotDemand, 0)
	for key, rec := range r.store.demand {
		if key.vendorID != vendorID || key.day != dayKey {
			continue
		}
		out := rec
		rows = append(rows, &out)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].SlotTime.IsBefore(rows[j].SlotTime)
	})
	return rows, nil
}

func (r *DemandRepository) Get(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) (*domain.SlotDemand, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	rec, ok := r.store.demand[demandKey{vendorID: vendorID, day: types.FormatDate(day), slot: slot}]
	if !ok {
		return nil, demandRepo.ErrDemandNotFound
	}
	out := rec
	return &out, nil
}

func (r *DemandRepository) Upsert(ctx context.Context, d *domain.SlotDemand) (*domain.SlotDemand, error) {
	if d.Qty <= 0 {
		return nil, fmt.Errorf("%w: got %d", demandRepo.ErrInvalidQty, d.Qty)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	key := demandKey{vendorID: d.VendorID, day: types.FormatDate(d.Day), slot: d.SlotTime}
	now := r.store.now()

	rec, ok := r.store.demand[key]
	if !ok {
		rec.ID = r.store.id()
		rec.CreatedAt = now
	}
	rec.VendorID = d.VendorID
	rec.Day = types.DateOnly(d.Day)
	rec.SlotTime = d.SlotTime
	rec.Qty = d.Qty
	if d.Note != nil {
		rec.Note = d.Note
	}
	rec.UpdatedAt = now
	r.store.demand[key] = rec

	d.ID = rec.ID
	d.CreatedAt = rec.CreatedAt
	d.UpdatedAt = rec.UpdatedAt
	return d, nil
}

func (r *DemandRepository) Delete(ctx context.Context, vendorID string, day time.Time, slot types.TimeString) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return err
	}

	key := demandKey{vendorID: vendorID, day: types.FormatDate(day), slot: slot}
	if _, ok := r.store.demand[key]; !ok {
		return demandRepo.ErrDemandNotFound
	}
	delete(r.store.demand, key)
	return nil
}

func (r *DemandRepository) DeleteByDay(ctx context.Context, vendorID string, day time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return 0, err
	}

	dayKey := types.FormatDate(day)
	var deleted int64
	for key := range r.store.demand {
		if key.vendorID == vendorID && key.day == dayKey {
			delete(r.store.demand, key)
			deleted++
		}
	}
	return deleted, nil
}
