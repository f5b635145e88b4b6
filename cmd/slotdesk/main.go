package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SlotService/internal/config"
	"github.com/m04kA/SMC-SlotService/internal/daysync"
	"github.com/m04kA/SMC-SlotService/internal/integrations/slotservice"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/ptr"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

type options struct {
	configPath string
	vendorID   string
	baseURL    string
	date       string
	interval   time.Duration
	timeout    time.Duration
	logLevel   string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "slotdesk",
		Short: "Терминал выдачи: загрузка слотов на день",
		Long: `slotdesk показывает слоты выбранного дня с занятым и свободным местом
и обновляет их каждые --interval. В интерактивном режиме принимает команды:

  add HH:MM N       изменить количество в слоте (N может быть отрицательным)
  date YYYY-MM-DD   переключить дату
  vendor UUID       переключить вендора
  refresh           обновить сейчас
  quit              выход`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.applyConfig(cmd); err != nil {
				return err
			}
			return opts.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config.toml сервиса: порт и период обновления по умолчанию")
	flags.StringVar(&opts.vendorID, "vendor", os.Getenv("SLOTDESK_VENDOR"), "ID вендора (UUID)")
	flags.StringVar(&opts.baseURL, "url", "http://localhost:8080", "Адрес SlotService")
	flags.StringVar(&opts.date, "date", "", "Дата YYYY-MM-DD (по умолчанию сегодня)")
	flags.DurationVar(&opts.interval, "interval", daysync.DefaultInterval, "Период обновления")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Таймаут HTTP запросов")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Уровень логов (debug, info, warn, error)")

	cmd.AddCommand(showCmd(opts), deltaCmd(opts), resetCmd(opts))

	return cmd
}

// applyConfig берет адрес и период обновления из конфига сервиса, если они не заданы флагами
func (o *options) applyConfig(cmd *cobra.Command) error {
	if o.configPath == "" {
		return nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("interval") {
		o.interval = time.Duration(cfg.Sync.RefreshIntervalSeconds) * time.Second
	}
	if !cmd.Flags().Changed("url") {
		o.baseURL = fmt.Sprintf("http://localhost:%d", cfg.Server.HTTPPort)
	}
	return nil
}

func (o *options) validate() error {
	if o.vendorID == "" {
		return errors.New("--vendor is required")
	}
	if _, err := uuid.Parse(o.vendorID); err != nil {
		return fmt.Errorf("invalid --vendor %q: %w", o.vendorID, err)
	}
	if o.date != "" {
		if _, err := types.ParseDate(o.date); err != nil {
			return fmt.Errorf("invalid --date %q: %w", o.date, err)
		}
	}
	if o.interval <= 0 {
		return errors.New("--interval must be positive")
	}
	return nil
}

func (o *options) day() time.Time {
	if o.date == "" {
		return types.DateOnly(time.Now())
	}
	d, _ := types.ParseDate(o.date)
	return d
}

func (o *options) client() (*slotservice.Client, *logger.Logger, error) {
	log, err := logger.NewWithFormat("", o.logLevel, "console")
	if err != nil {
		return nil, nil, err
	}
	return slotservice.NewClient(o.baseURL, o.timeout, log), log, nil
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Показать день один раз",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, log, err := opts.client()
			if err != nil {
				return err
			}
			defer log.Close()

			view, err := client.LoadDay(cmd.Context(), opts.vendorID, opts.day())
			if err != nil {
				return err
			}

			renderView(cmd.OutOrStdout(), daysync.Snapshot{
				VendorID: opts.vendorID,
				Date:     opts.day(),
				State:    daysync.StateIdle,
				View:     view,
			})
			return nil
		},
	}
}

func deltaCmd(opts *options) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "delta HH:MM N",
		Short: "Изменить количество в слоте",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, delta, err := parseDelta(args[0], args[1])
			if err != nil {
				return err
			}

			client, log, err := opts.client()
			if err != nil {
				return err
			}
			defer log.Close()

			var notePtr *string
			if cmd.Flags().Changed("note") {
				notePtr = ptr.Ptr(note)
			}

			result, err := client.ApplyDelta(cmd.Context(), opts.vendorID, opts.day(), slot, delta, notePtr)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d -> %d (свободно %d из %d)\n",
				result.Date, result.Time, result.PreviousQty, result.Qty, result.Remaining, result.MaxPerSlot)
			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Комментарий к слоту")
	return cmd
}

func resetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Удалить весь спрос за день",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, log, err := opts.client()
			if err != nil {
				return err
			}
			defer log.Close()

			result, err := client.ResetDay(cmd.Context(), opts.vendorID, opts.day())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: удалено слотов %d\n", result.Date, result.Deleted)
			return nil
		},
	}
}

func runWatch(cmd *cobra.Command, opts *options) error {
	client, log, err := opts.client()
	if err != nil {
		return err
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	loop := daysync.NewLoop(client, client, log, daysync.WithInterval(opts.interval))
	loop.OnChange(func(s daysync.Snapshot) {
		renderView(out, s)
	})

	if err := loop.SetVendor(ctx, opts.vendorID); err != nil && !errors.Is(err, daysync.ErrStaleRefresh) {
		log.Warn("Initial load failed: %v", err)
	}
	if err := loop.SetDate(ctx, opts.day()); err != nil && !errors.Is(err, daysync.ErrStaleRefresh) {
		log.Warn("Failed to load %s: %v", types.FormatDate(opts.day()), err)
	}

	go readCommands(ctx, stop, cmd.InOrStdin(), out, loop)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func parseDelta(slotArg, deltaArg string) (types.TimeString, int, error) {
	slot, err := types.NewTimeStringFromString(slotArg)
	if err != nil {
		return "", 0, fmt.Errorf("invalid slot %q: %w", slotArg, err)
	}
	delta, err := strconv.Atoi(deltaArg)
	if err != nil {
		return "", 0, fmt.Errorf("invalid delta %q: %w", deltaArg, err)
	}
	if delta == 0 {
		return "", 0, errors.New("delta must not be zero")
	}
	return slot, delta, nil
}
