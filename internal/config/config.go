package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration loaded from a TOML file.
type Config struct {
	Server         ServerConfig  `toml:"server"`
	Database       DBConfig      `toml:"database"`
	Logs           LogsConfig    `toml:"logs"`
	Metrics        MetricsConfig `toml:"metrics"`
	Kafka          KafkaConfig   `toml:"kafka"`
	CatalogService ClientConfig  `toml:"catalog_service"`
	Booking        BookingConfig `toml:"booking"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // seconds
	WriteTimeout    int `toml:"write_timeout"`    // seconds
	IdleTimeout     int `toml:"idle_timeout"`     // seconds
	ShutdownTimeout int `toml:"shutdown_timeout"` // seconds
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // seconds
}

// DSN builds the lib/pq connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig holds logger settings.
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// KafkaConfig holds outbound event relay settings.
type KafkaConfig struct {
	Enabled      bool   `toml:"enabled"`
	Brokers      string `toml:"brokers"`       // comma-separated
	PollInterval int    `toml:"poll_interval"` // milliseconds
	BatchSize    int    `toml:"batch_size"`
	MaxRetries   int    `toml:"max_retries"`
}

// ClientConfig holds settings for an HTTP integration client.
type ClientConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // seconds
}

// BookingConfig holds platform-wide booking defaults. Per-business values in
// storage override these.
type BookingConfig struct {
	SlotGranularityMinutes int `toml:"slot_granularity_minutes"`
	HorizonDays            int `toml:"horizon_days"`
	MinNoticeHours         int `toml:"min_notice_hours"`
	FullRefundHours        int `toml:"full_refund_hours"`
	PartialRefundPercent   int `toml:"partial_refund_percent"`
	LockTimeoutSeconds     int `toml:"lock_timeout_seconds"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DBConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "booking-engine",
		},
		Kafka: KafkaConfig{
			PollInterval: 200,
			BatchSize:    100,
			MaxRetries:   5,
		},
		CatalogService: ClientConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			SlotGranularityMinutes: 30,
			HorizonDays:            90,
			MinNoticeHours:         24,
			FullRefundHours:        48,
			PartialRefundPercent:   50,
			LockTimeoutSeconds:     3,
		},
	}
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("config: invalid server.http_port %d", c.Server.HTTPPort)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Kafka.Enabled && c.Kafka.Brokers == "" {
		return fmt.Errorf("config: kafka.brokers is required when kafka is enabled")
	}
	if c.CatalogService.URL == "" {
		return fmt.Errorf("config: catalog_service.url is required")
	}
	if c.Booking.SlotGranularityMinutes <= 0 {
		return fmt.Errorf("config: booking.slot_granularity_minutes must be positive")
	}
	if c.Booking.HorizonDays <= 0 {
		return fmt.Errorf("config: booking.horizon_days must be positive")
	}
	if c.Booking.PartialRefundPercent < 0 || c.Booking.PartialRefundPercent > 100 {
		return fmt.Errorf("config: booking.partial_refund_percent must be 0-100")
	}
	return nil
}
