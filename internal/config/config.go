package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SlotService/internal/domain"
	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// Переменные окружения, перекрывающие значения из файла
const (
	EnvDBPassword = "SMC_DB_PASSWORD"
	EnvHTTPPort   = "SMC_HTTP_PORT"
)

// Драйверы хранилища
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var (
	// ErrReadConfig возвращается, когда файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Sync     SyncConfig     `toml:"sync"`
	Slots    SlotsConfig    `toml:"slots"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`
	Format string `toml:"format"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SyncConfig настройки периодического обновления дня в клиенте
type SyncConfig struct {
	RefreshIntervalSeconds int `toml:"refresh_interval_seconds"`
}

// SlotsConfig значения по умолчанию для часов работы и вместимости
type SlotsConfig struct {
	DefaultOpenTime    string `toml:"default_open_time"`
	DefaultCloseTime   string `toml:"default_close_time"`
	DefaultSlotMinutes int    `toml:"default_slot_minutes"`
	DefaultMaxPerSlot  int    `toml:"default_max_per_slot"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "smc_slots",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			AutoMigrate:     true,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Logs:    LogsConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics", ServiceName: "smc-slotservice"},
		Sync:    SyncConfig{RefreshIntervalSeconds: 5},
		Slots: SlotsConfig{
			DefaultOpenTime:    string(domain.DefaultOpenTime),
			DefaultCloseTime:   string(domain.DefaultCloseTime),
			DefaultSlotMinutes: domain.DefaultSlotMinutes,
			DefaultMaxPerSlot:  domain.DefaultMaxPerSlot,
		},
	}
}

// Load читает конфигурацию: значения по умолчанию, затем файл, затем переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvDBPassword); ok {
		c.Database.Password = v
	}

	if v, ok := os.LookupEnv(EnvHTTPPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvHTTPPort, v)
		}
		c.Server.HTTPPort = port
	}

	return nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: storage.driver must be %q or %q", ErrInvalidConfig, StorageDriverPostgres, StorageDriverMemory)
	}

	if c.Sync.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("%w: sync.refresh_interval_seconds must be positive", ErrInvalidConfig)
	}

	if _, err := c.DefaultHours(); err != nil {
		return err
	}

	if c.Slots.DefaultMaxPerSlot < domain.MinMaxPerSlot || c.Slots.DefaultMaxPerSlot > domain.MaxMaxPerSlot {
		return fmt.Errorf("%w: slots.default_max_per_slot must be in %d..%d",
			ErrInvalidConfig, domain.MinMaxPerSlot, domain.MaxMaxPerSlot)
	}

	return nil
}

// DefaultHours возвращает часы работы, которые действуют без исключений и правил
func (c *Config) DefaultHours() (domain.OpeningHours, error) {
	open, err := types.NewTimeStringFromString(c.Slots.DefaultOpenTime)
	if err != nil {
		return domain.OpeningHours{}, fmt.Errorf("%w: slots.default_open_time: %v", ErrInvalidConfig, err)
	}

	closeTime, err := types.NewTimeStringFromString(c.Slots.DefaultCloseTime)
	if err != nil {
		return domain.OpeningHours{}, fmt.Errorf("%w: slots.default_close_time: %v", ErrInvalidConfig, err)
	}

	if c.Slots.DefaultSlotMinutes < domain.MinSlotMinutes || c.Slots.DefaultSlotMinutes > domain.MaxSlotMinutes {
		return domain.OpeningHours{}, fmt.Errorf("%w: slots.default_slot_minutes must be in %d..%d",
			ErrInvalidConfig, domain.MinSlotMinutes, domain.MaxSlotMinutes)
	}

	return domain.OpeningHours{
		OpenTime:    open,
		CloseTime:   closeTime,
		SlotMinutes: c.Slots.DefaultSlotMinutes,
	}, nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}
