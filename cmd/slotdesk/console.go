package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SlotService/internal/daysync"
	"github.com/m04kA/SMC-SlotService/internal/integrations/slotservice"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// readCommands читает команды оператора до EOF или quit
func readCommands(ctx context.Context, stop context.CancelFunc, in io.Reader, out io.Writer, loop *daysync.Loop) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if err := execCommand(ctx, loop, fields); err != nil {
			if errors.Is(err, errQuit) {
				stop()
				return
			}
			fmt.Fprintf(out, "! %s\n", describeError(err))
		}
	}
}

var errQuit = errors.New("quit")

func execCommand(ctx context.Context, loop *daysync.Loop, fields []string) error {
	switch fields[0] {
	case "add", "+":
		if len(fields) != 3 {
			return errors.New("usage: add HH:MM N")
		}
		slot, delta, err := parseDelta(fields[1], fields[2])
		if err != nil {
			return err
		}
		return loop.Mutate(ctx, slot, delta)

	case "date":
		if len(fields) != 2 {
			return errors.New("usage: date YYYY-MM-DD")
		}
		day, err := types.ParseDate(fields[1])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", fields[1], err)
		}
		return ignoreStale(loop.SetDate(ctx, day))

	case "vendor":
		if len(fields) != 2 {
			return errors.New("usage: vendor UUID")
		}
		if _, err := uuid.Parse(fields[1]); err != nil {
			return fmt.Errorf("invalid vendor %q: %w", fields[1], err)
		}
		return ignoreStale(loop.SetVendor(ctx, fields[1]))

	case "refresh":
		return ignoreStale(loop.Refresh(ctx))

	case "quit", "exit":
		return errQuit

	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func ignoreStale(err error) error {
	if errors.Is(err, daysync.ErrStaleRefresh) {
		return nil
	}
	return err
}

func describeError(err error) string {
	switch {
	case errors.Is(err, daysync.ErrCapacityExceeded), errors.Is(err, slotservice.ErrCapacityExceeded):
		return "слот заполнен"
	case errors.Is(err, daysync.ErrUnknownSlot), errors.Is(err, slotservice.ErrInvalidRequest):
		return "слот недоступен в эту дату"
	case errors.Is(err, daysync.ErrNotLoaded):
		return "день еще не загружен"
	default:
		return err.Error()
	}
}

// renderView печатает день таблицей
func renderView(out io.Writer, s daysync.Snapshot) {
	fmt.Fprintf(out, "\n== %s  vendor %s", types.FormatDate(s.Date), s.VendorID)
	if s.State == daysync.StateLoading {
		fmt.Fprint(out, "  (загрузка...)")
	}
	fmt.Fprintln(out)

	if s.LastError != nil {
		fmt.Fprintf(out, "! обновление не удалось: %s\n", describeError(s.LastError))
	}

	v := s.View
	if v == nil {
		return
	}

	if v.Hours.IsClosed {
		fmt.Fprintf(out, "закрыто (%s)\n", v.Hours.Source)
	} else {
		fmt.Fprintf(out, "%s-%s, слот %d мин, до %d в слоте (%s)\n",
			v.Hours.OpenTime, v.Hours.CloseTime, v.Hours.SlotMinutes, v.MaxPerSlot, v.Hours.Source)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "СЛОТ\tЗАНЯТО\tСВОБОДНО\t")
	for _, slot := range v.Slots {
		mark := ""
		if slot.Full {
			mark = "полный"
		}
		if s.Unconfirmed[slot.Time] {
			mark = strings.TrimSpace(mark + " *")
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", slot.Time, slot.Used, slot.Remaining, mark)
	}
	_ = tw.Flush()

	for _, o := range v.Orphans {
		fmt.Fprintf(out, "! %s вне сетки: %d\n", o.Time, o.Used)
	}
}
