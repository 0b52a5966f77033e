package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/whygo"
)

// Config represents the complete whygo configuration
type Config struct {
	API       APIConfig       `mapstructure:"api" yaml:"api"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
	Session   SessionConfig   `mapstructure:"session" yaml:"session"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	TUI       TUIConfig       `mapstructure:"tui" yaml:"tui"`
}

// APIConfig controls how the client reaches the WhyGO backend
type APIConfig struct {
	// BaseURL is the scheme and host of the API (default: http://localhost:8000)
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	// Timeout bounds each request. Requests are never retried.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=1s,max=5m"`
}

// CacheConfig holds the staleness window for each cached resource kind
type CacheConfig struct {
	MyGoalsTTL          time.Duration `mapstructure:"my_goals_ttl" yaml:"my_goals_ttl" validate:"min=0"`
	PendingApprovalsTTL time.Duration `mapstructure:"pending_approvals_ttl" yaml:"pending_approvals_ttl" validate:"min=0"`
	ContextTTL          time.Duration `mapstructure:"context_ttl" yaml:"context_ttl" validate:"min=0"`
	CompanyGoalsTTL     time.Duration `mapstructure:"company_goals_ttl" yaml:"company_goals_ttl" validate:"min=0"`
	DepartmentGoalsTTL  time.Duration `mapstructure:"department_goals_ttl" yaml:"department_goals_ttl" validate:"min=0"`
	TeamTTL             time.Duration `mapstructure:"team_ttl" yaml:"team_ttl" validate:"min=0"`
}

// DashboardConfig controls the dashboard screen
type DashboardConfig struct {
	// Quarter selects the quarter used for goal status: "auto" follows the
	// calendar, "q1".."q4" pins it.
	Quarter string `mapstructure:"quarter" yaml:"quarter" validate:"oneof=auto q1 q2 q3 q4"`
	// PollInterval is how often open dashboards re-read approvals and team
	// progress (default: 1m)
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" validate:"min=5s"`
}

// SessionConfig controls where the session is persisted
type SessionConfig struct {
	// StateDir holds session.json and whygo.log. Empty means the default
	// state directory.
	StateDir string `mapstructure:"state_dir" yaml:"state_dir"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled turns file logging on (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum level written: debug, info, warn, error
	Level string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	// MaxSizeMB rotates the log file past this size
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"gt=0,lte=1000"`
	// MaxBackups is the number of rotated files kept
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	// Theme is the color theme name, or a path to a YAML theme file
	Theme string `mapstructure:"theme" yaml:"theme" validate:"required"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 15 * time.Second,
		},
		Cache: CacheConfig{
			MyGoalsTTL:          5 * time.Minute,
			PendingApprovalsTTL: 2 * time.Minute,
			ContextTTL:          10 * time.Minute,
			CompanyGoalsTTL:     30 * time.Minute,
			DepartmentGoalsTTL:  15 * time.Minute,
			TeamTTL:             10 * time.Minute,
		},
		Dashboard: DashboardConfig{
			Quarter:      "auto",
			PollInterval: time.Minute,
		},
		Session: SessionConfig{
			StateDir: "",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 2,
		},
		TUI: TUIConfig{
			Theme: "default",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout", defaults.API.Timeout)

	viper.SetDefault("cache.my_goals_ttl", defaults.Cache.MyGoalsTTL)
	viper.SetDefault("cache.pending_approvals_ttl", defaults.Cache.PendingApprovalsTTL)
	viper.SetDefault("cache.context_ttl", defaults.Cache.ContextTTL)
	viper.SetDefault("cache.company_goals_ttl", defaults.Cache.CompanyGoalsTTL)
	viper.SetDefault("cache.department_goals_ttl", defaults.Cache.DepartmentGoalsTTL)
	viper.SetDefault("cache.team_ttl", defaults.Cache.TeamTTL)

	viper.SetDefault("dashboard.quarter", defaults.Dashboard.Quarter)
	viper.SetDefault("dashboard.poll_interval", defaults.Dashboard.PollInterval)

	viper.SetDefault("session.state_dir", defaults.Session.StateDir)

	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "whygo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".whygo"
	}
	return filepath.Join(home, ".config", "whygo")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultStateDir returns $XDG_STATE_HOME/whygo, falling back to
// ~/.local/state/whygo.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "whygo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".whygo"
	}
	return filepath.Join(home, ".local", "state", "whygo")
}

// ResolveStateDir returns the configured state directory or the default.
func (s SessionConfig) ResolveStateDir() string {
	if s.StateDir != "" {
		return s.StateDir
	}
	return DefaultStateDir()
}

// Rotation returns the logging rotation settings.
func (l LoggingConfig) Rotation() logging.RotationConfig {
	return logging.RotationConfig{
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
	}
}

// ResolveQuarter resolves the configured quarter. "auto" uses the quarter that
// contains now.
func (d DashboardConfig) ResolveQuarter(now time.Time) whygo.Quarter {
	if q, err := whygo.ParseQuarter(d.Quarter); err == nil {
		return q
	}
	return whygo.QuarterOf(now)
}
