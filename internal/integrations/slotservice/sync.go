package slotservice

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotService/internal/daysync"
	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// LoadDay реализует daysync.DayLoader
func (c *Client) LoadDay(ctx context.Context, vendorID string, date time.Time) (*daysync.View, error) {
	view, err := c.GetDayView(ctx, vendorID, date)
	if err != nil {
		return nil, err
	}

	day, err := types.ParseDate(view.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q: %v", ErrInvalidResponse, view.Date, err)
	}

	result := &daysync.View{
		Hours: domain.EffectiveHours{
			Day: day,
			OpeningHours: domain.OpeningHours{
				IsClosed:    view.Hours.IsClosed,
				OpenTime:    view.Hours.OpenTime,
				CloseTime:   view.Hours.CloseTime,
				SlotMinutes: view.Hours.SlotMinutes,
			},
			Source: view.Hours.Source,
		},
		MaxPerSlot: view.MaxPerSlot,
		Slots:      make([]daysync.Slot, 0, len(view.Slots)),
		Orphans:    make([]daysync.Slot, 0, len(view.Orphans)),
	}

	for _, s := range view.Slots {
		result.Slots = append(result.Slots, daysync.Slot{
			Time:      s.Time,
			Used:      s.Used,
			Remaining: s.Remaining,
			Full:      s.Full,
		})
	}
	for _, o := range view.Orphans {
		result.Orphans = append(result.Orphans, daysync.Slot{Time: o.Time, Used: o.Used})
	}

	return result, nil
}

// SubmitDelta реализует daysync.Mutator
func (c *Client) SubmitDelta(ctx context.Context, vendorID string, date time.Time, slot types.TimeString, delta int) error {
	result, err := c.ApplyDelta(ctx, vendorID, date, slot, delta, nil)
	if err != nil {
		return err
	}

	c.log.Info("Applied delta %+d to %s %s: qty=%d, remaining=%d", delta, result.Date, slot, result.Qty, result.Remaining)
	return nil
}
