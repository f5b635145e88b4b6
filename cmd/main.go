package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SlotService/internal/api"
	applyDeltaHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/apply_delta"
	getDayViewHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_day_view"
	getHoursHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_hours"
	getSettingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/get_settings"
	listRulesHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/list_rules"
	resetDayHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/reset_day"
	saveHoursHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/save_hours"
	updateSettingsHandler "github.com/m04kA/SMC-SlotService/internal/api/handlers/update_settings"
	"github.com/m04kA/SMC-SlotService/internal/config"
	hoursService "github.com/m04kA/SMC-SlotService/internal/service/hours"
	settingsService "github.com/m04kA/SMC-SlotService/internal/service/settings"
	applyDeltaUC "github.com/m04kA/SMC-SlotService/internal/usecase/apply_delta"
	getDayViewUC "github.com/m04kA/SMC-SlotService/internal/usecase/get_day_view"
	resetDayUC "github.com/m04kA/SMC-SlotService/internal/usecase/reset_day"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
	"github.com/m04kA/SMC-SlotService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.NewWithFormat(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Format)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-SlotService...")
	log.Info("Configuration loaded from config.toml (storage=%s)", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище
	store, err := openStorage(cfg, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to initialize storage: %v", err)
	}
	defer store.close()

	defaultHours, err := cfg.DefaultHours()
	if err != nil {
		log.Fatal("Invalid default hours: %v", err)
	}

	// Инициализируем сервисы
	hoursSvc := hoursService.NewService(store.hours, defaultHours, log)
	settingsSvc := settingsService.NewService(store.settings, cfg.Slots.DefaultMaxPerSlot, log)

	// Инициализируем use cases
	getDayViewUseCase := getDayViewUC.NewUseCase(hoursSvc, settingsSvc, store.demand, log)
	applyDeltaUseCase := applyDeltaUC.NewUseCase(hoursSvc, settingsSvc, store.demand, store.tx, metricsCollector, log)
	resetDayUseCase := resetDayUC.NewUseCase(store.demand, metricsCollector, log)

	// Инициализируем handlers и роутер
	router := api.NewRouter(api.Handlers{
		GetDayView:     getDayViewHandler.NewHandler(getDayViewUseCase, log),
		GetHours:       getHoursHandler.NewHandler(hoursSvc, log),
		SaveHours:      saveHoursHandler.NewHandler(hoursSvc, log),
		ApplyDelta:     applyDeltaHandler.NewHandler(applyDeltaUseCase, log),
		ResetDay:       resetDayHandler.NewHandler(resetDayUseCase, log),
		GetSettings:    getSettingsHandler.NewHandler(settingsSvc, log),
		UpdateSettings: updateSettingsHandler.NewHandler(settingsSvc, log),
		ListRules:      listRulesHandler.NewHandler(hoursSvc, log),
	}, api.MetricsOptions{Collector: metricsCollector, Path: cfg.Metrics.Path})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
