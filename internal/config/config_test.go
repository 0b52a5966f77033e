package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/kartel/whygo/internal/whygo"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, "http://localhost:8000")
	}

	ttls := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{"my goals", cfg.Cache.MyGoalsTTL, 5 * time.Minute},
		{"pending approvals", cfg.Cache.PendingApprovalsTTL, 2 * time.Minute},
		{"context", cfg.Cache.ContextTTL, 10 * time.Minute},
		{"company goals", cfg.Cache.CompanyGoalsTTL, 30 * time.Minute},
		{"department goals", cfg.Cache.DepartmentGoalsTTL, 15 * time.Minute},
		{"team", cfg.Cache.TeamTTL, 10 * time.Minute},
	}
	for _, tt := range ttls {
		if tt.got != tt.want {
			t.Errorf("%s TTL = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if cfg.Dashboard.PollInterval != time.Minute {
		t.Errorf("Dashboard.PollInterval = %v, want 1m", cfg.Dashboard.PollInterval)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("default config should be valid, got %v", ValidationErrors(errs))
	}
}

func TestLoad_FromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("api.base_url", "https://whygo.example.com")
	viper.Set("api.timeout", "30s")
	viper.Set("dashboard.quarter", "q3")
	viper.Set("cache.team_ttl", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.API.BaseURL != "https://whygo.example.com" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Cache.TeamTTL != time.Minute {
		t.Errorf("Cache.TeamTTL = %v, want 1m", cfg.Cache.TeamTTL)
	}
	if cfg.Cache.CompanyGoalsTTL != 30*time.Minute {
		t.Errorf("Cache.CompanyGoalsTTL = %v, want default 30m", cfg.Cache.CompanyGoalsTTL)
	}
}

func TestLoad_Invalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("api.base_url", "not a url")
	viper.Set("dashboard.quarter", "q5")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail for invalid values")
	}
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Load() error type = %T, want ValidationErrors", err)
	}

	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	for _, want := range []string{"api.base_url", "dashboard.quarter"} {
		if !fields[want] {
			t.Errorf("missing validation error for %s in %v", want, verrs)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		message string
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url", "is required"},
		{"tiny timeout", func(c *Config) { c.API.Timeout = time.Millisecond }, "api.timeout", "must be at least 1s"},
		{"negative ttl", func(c *Config) { c.Cache.MyGoalsTTL = -time.Second }, "cache.my_goals_ttl", "must be non-negative"},
		{"fast polling", func(c *Config) { c.Dashboard.PollInterval = time.Second }, "dashboard.poll_interval", "must be at least 5s"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level", "must be one of: debug, info, warn, error"},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, "logging.max_size_mb", "must be positive"},
		{"unknown theme", func(c *Config) { c.TUI.Theme = "solarized" }, "tui.theme", "must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), ValidationErrors(errs))
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
			if !strings.HasPrefix(errs[0].Message, tt.message) {
				t.Errorf("Message = %q, want prefix %q", errs[0].Message, tt.message)
			}
		})
	}
}

func TestValidate_ThemeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	if err := os.WriteFile(path, []byte("name: Mine\ncolors:\n  primary: \"#ff0000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.TUI.Theme = path
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("valid theme file rejected: %v", ValidationErrors(errs))
	}

	cfg.TUI.Theme = filepath.Join(t.TempDir(), "missing.yaml")
	if errs := cfg.Validate(); len(errs) != 1 {
		t.Errorf("missing theme file accepted")
	}
}

func TestResolveQuarter(t *testing.T) {
	now := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)

	if got := (DashboardConfig{Quarter: "auto"}).ResolveQuarter(now); got != whygo.Q3 {
		t.Errorf("auto in August = %v, want q3", got)
	}
	if got := (DashboardConfig{Quarter: "q1"}).ResolveQuarter(now); got != whygo.Q1 {
		t.Errorf("pinned q1 = %v", got)
	}
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "whygo") {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigFile(); got != filepath.Join("/tmp/xdg", "whygo", "config.yaml") {
		t.Errorf("ConfigFile() = %q", got)
	}
}

func TestResolveStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := (SessionConfig{}).ResolveStateDir(); got != filepath.Join("/tmp/state", "whygo") {
		t.Errorf("default state dir = %q", got)
	}
	if got := (SessionConfig{StateDir: "/srv/whygo"}).ResolveStateDir(); got != "/srv/whygo" {
		t.Errorf("configured state dir = %q", got)
	}
}
