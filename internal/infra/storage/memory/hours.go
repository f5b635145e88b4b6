package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	hoursRepo "github.com/m04kA/SMC-SlotService/internal/infra/storage/hours"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

type overrideRecord = domain.DateOverride

type ruleRecord = domain.StandingRule

// HoursRepository хранилище исключений и правил в памяти
type HoursRepository struct {
	store *Store
}

func (r *HoursRepository) GetOverride(ctx context.Context, vendorID string, day time.Time) (*domain.DateOverride, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	rec, ok := r.store.overrides[overrideKey{vendorID: vendorID, day: types.FormatDate(day)}]
	if !ok {
		return nil, hoursRepo.ErrOverrideNotFound
	}
	out := rec
	return &out, nil
}

func (r *HoursRepository) UpsertOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	key := overrideKey{vendorID: o.VendorID, day: types.FormatDate(o.Day)}
	now := r.store.now()

	rec, ok := r.store.overrides[key]
	if !ok {
		rec.ID = r.store.id()
		rec.CreatedAt = now
	}
	rec.VendorID = o.VendorID
	rec.Day = types.DateOnly(o.Day)
	rec.OpeningHours = o.OpeningHours
	rec.UpdatedAt = now
	r.store.overrides[key] = rec

	o.ID = rec.ID
	o.CreatedAt = rec.CreatedAt
	o.UpdatedAt = rec.UpdatedAt
	return o, nil
}

func (r *HoursRepository) GetMostRecentBefore(ctx context.Context, vendorID string, day time.Time, limit uint64) ([]*domain.StandingRule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	target := types.DateOnly(day)
	candidates := make([]*domain.StandingRule, 0)
	for _, rec := range r.store.rules {
		if rec.VendorID != vendorID || rec.StartDay.After(target) {
			continue
		}
		out := rec
		candidates = append(candidates, &out)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].StartDay.Equal(candidates[j].StartDay) {
			return candidates[i].StartDay.After(candidates[j].StartDay)
		}
		return candidates[i].ID < candidates[j].ID
	})

	if uint64(len(candidates)) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (r *HoursRepository) UpsertRule(ctx context.Context, rule *domain.StandingRule) (*domain.StandingRule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	key := ruleKey{vendorID: rule.VendorID, startDay: types.FormatDate(rule.StartDay)}
	now := r.store.now()

	rec, ok := r.store.rules[key]
	if !ok {
		rec.ID = r.store.id()
		rec.CreatedAt = now
	}
	rec.VendorID = rule.VendorID
	rec.StartDay = types.DateOnly(rule.StartDay)
	rec.OpeningHours = rule.OpeningHours
	rec.UpdatedAt = now
	r.store.rules[key] = rec

	rule.ID = rec.ID
	rule.CreatedAt = rec.CreatedAt
	rule.UpdatedAt = rec.UpdatedAt
	return rule, nil
}

func (r *HoursRepository) ListRules(ctx context.Context, vendorID string) ([]*domain.StandingRule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if err := r.store.check(ctx); err != nil {
		return nil, err
	}

	rules := make([]*domain.StandingRule, 0)
	for _, rec := range r.store.rules {
		if rec.VendorID != vendorID {
			continue
		}
		out := rec
		rules = append(rules, &out)
	}

	sort.Slice(rules, func(i, j int) bool {
		if !rules[i].StartDay.Equal(rules[j].StartDay) {
			return rules[i].StartDay.Before(rules[j].StartDay)
		}
		return rules[i].ID < rules[j].ID
	})
	return rules, nil
}

// InsertRuleUnchecked добавляет правило без проверки уникальности (vendor, start_day).
// Нужен тестам, чтобы воспроизвести нарушение целостности данных.
func (r *HoursRepository) InsertRuleUnchecked(rule domain.StandingRule) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	rule.ID = r.store.id()
	rule.StartDay = types.DateOnly(rule.StartDay)
	key := ruleKey{vendorID: rule.VendorID, startDay: fmt.Sprintf("%s#%d", types.FormatDate(rule.StartDay), rule.ID)}
	r.store.rules[key] = rule
}
