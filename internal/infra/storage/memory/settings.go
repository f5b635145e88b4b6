package memory

import (
	"context"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/settings"
)

type settingsRecord = domain.VendorSettings

// SettingsRepository хранилище настроек в памяти
type SettingsRepository struct {
	store *Store
}

func (r *SettingsRepository) Get(ctx context.Context, vendorID string) (*domain.VendorSettings, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	rec, ok := r.store.settings[vendorID]
	if !ok {
		return nil, settingsRepo.ErrSettingsNotFound
	}
	out := rec
	return &out, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s *domain.VendorSettings) (*domain.VendorSettings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	now := r.store.now()
	rec, ok := r.store.settings[s.VendorID]
	if !ok {
		rec.CreatedAt = now
	}
	rec.VendorID = s.VendorID
	rec.MaxPerSlot = s.MaxPerSlot
	rec.UpdatedAt = now
	r.store.settings[s.VendorID] = rec

	s.CreatedAt = rec.CreatedAt
	s.UpdatedAt = rec.UpdatedAt
	return s, nil
}

func (r *SettingsRepository) EnsureDefault(ctx context.Context, vendorID string, maxPerSlot int) (*domain.VendorSettings, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	rec, ok := r.store.settings[vendorID]
	if !ok {
		now := r.store.now()
		rec = settingsRecord{VendorID: vendorID, MaxPerSlot: maxPerSlot, CreatedAt: now, UpdatedAt: now}
		r.store.settings[vendorID] = rec
	}
	out := rec
	return &out, nil
}
