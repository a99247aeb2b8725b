package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"barberm/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Logging    LoggingConfig    `yaml:"logging"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	API        APIConfig        `yaml:"api"`
	Business   BusinessConfig   `yaml:"business"`
	Services   []models.Service `yaml:"services"`
	Exports    ExportConfig     `yaml:"exports"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Cleanup    CleanupConfig    `yaml:"cleanup"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type APIConfig struct {
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeout     int `yaml:"read_timeout"`
	WriteTimeout    int `yaml:"write_timeout"`
	ShutdownTimeout int `yaml:"shutdown_timeout"`
}

type APIAuthConfig struct {
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// BusinessConfig holds the calendar options: per-weekday operating hours,
// the daily break window and the slot granularity.
type BusinessConfig struct {
	WorkingHours        map[string]DayHours `yaml:"working_hours"`
	BreakTime           TimeWindow          `yaml:"break_time"`
	SlotDurationMinutes int                 `yaml:"slot_duration_minutes"`
	MaxBookingDays      int                 `yaml:"max_booking_days"`
}

type DayHours struct {
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Closed bool   `yaml:"closed"`
}

type TimeWindow struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type RefreshConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
	SnapshotTTL     int  `yaml:"snapshot_ttl_seconds"`
}

type CleanupConfig struct {
	RetentionDays int `yaml:"retention_days"`
}

var weekdayKeys = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment variables referenced from the YAML are
	// expanded before parsing.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if err := ValidateBusiness(c.Business); err != nil {
		return err
	}

	return ValidateServices(c.Services)
}

func ValidateBusiness(b BusinessConfig) error {
	if b.SlotDurationMinutes <= 0 {
		return errors.New("business.slot_duration_minutes must be positive")
	}

	for day, hours := range b.WorkingHours {
		if !isWeekdayKey(day) {
			return fmt.Errorf("unknown weekday %q in business.working_hours", day)
		}
		if hours.Closed {
			continue
		}
		start, err := parseClock(hours.Start)
		if err != nil {
			return fmt.Errorf("working_hours.%s.start: %w", day, err)
		}
		end, err := parseClock(hours.End)
		if err != nil {
			return fmt.Errorf("working_hours.%s.end: %w", day, err)
		}
		if start >= end {
			return fmt.Errorf("working_hours.%s: start must precede end", day)
		}
	}

	if b.BreakTime.Start != "" || b.BreakTime.End != "" {
		start, err := parseClock(b.BreakTime.Start)
		if err != nil {
			return fmt.Errorf("break_time.start: %w", err)
		}
		end, err := parseClock(b.BreakTime.End)
		if err != nil {
			return fmt.Errorf("break_time.end: %w", err)
		}
		if start >= end {
			return errors.New("break_time: start must precede end")
		}
	}

	return nil
}

func ValidateServices(services []models.Service) error {
	ids := make(map[int64]bool)
	names := make(map[string]bool)
	for _, svc := range services {
		if svc.ID == 0 {
			return fmt.Errorf("service %q has invalid ID 0", svc.Name)
		}
		if ids[svc.ID] {
			return fmt.Errorf("duplicate service ID found: %d", svc.ID)
		}
		ids[svc.ID] = true

		key := strings.ToLower(strings.TrimSpace(svc.Name))
		if key == "" {
			return fmt.Errorf("service %d has empty name", svc.ID)
		}
		if names[key] {
			return fmt.Errorf("duplicate service name found: %s", svc.Name)
		}
		names[key] = true

		if svc.DurationMinutes <= 0 {
			return fmt.Errorf("service %q must have a positive duration", svc.Name)
		}
		if svc.Price < 0 {
			return fmt.Errorf("service %q must not have a negative price", svc.Name)
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.API.HTTP.ReadTimeout == 0 {
		c.API.HTTP.ReadTimeout = 15
	}
	if c.API.HTTP.WriteTimeout == 0 {
		c.API.HTTP.WriteTimeout = 15
	}
	if c.API.HTTP.ShutdownTimeout == 0 {
		c.API.HTTP.ShutdownTimeout = 10
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}

	if c.Business.SlotDurationMinutes == 0 {
		c.Business.SlotDurationMinutes = models.DefaultSlotDurationMinutes
	}
	if c.Business.MaxBookingDays == 0 {
		c.Business.MaxBookingDays = 365
	}

	if c.Refresh.IntervalSeconds == 0 {
		c.Refresh.IntervalSeconds = models.DefaultRefreshIntervalSeconds
	}
	if c.Refresh.SnapshotTTL == 0 {
		c.Refresh.SnapshotTTL = 2 * c.Refresh.IntervalSeconds
	}
	if c.Cleanup.RetentionDays == 0 {
		c.Cleanup.RetentionDays = models.DefaultCleanupDays
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

func isWeekdayKey(day string) bool {
	for _, k := range weekdayKeys {
		if k == day {
			return true
		}
	}
	return false
}

// parseClock validates an HH:MM string and returns minutes since midnight.
func parseClock(value string) (int, error) {
	t, err := time.Parse(models.TimeFormat, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return t.Hour()*60 + t.Minute(), nil
}
