// Package config provides CLI commands for inspecting whygo configuration.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/kartel/whygo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View whygo configuration",
	Long: `View whygo configuration.

Use 'config show' to print the effective configuration, 'config path' to
see where it is read from and 'config init' to create a commented config
file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/whygo/config.yaml with all available options.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(themeCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}
	fmt.Fprintf(out, "# State directory: %s\n", cfg.Session.ResolveStateDir())

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	return enc.Close()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := appconfig.ConfigDir()
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s", configFile)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configFile, []byte(defaultConfigFile()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize whygo.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}
	fmt.Fprintln(out, "\nEnvironment variables: WHYGO_* (e.g., WHYGO_API_BASE_URL)")
	return nil
}

// defaultConfigFile renders the commented config written by 'config init'.
func defaultConfigFile() string {
	d := appconfig.Default()
	return fmt.Sprintf(`# whygo configuration

# WhyGO API
api:
  base_url: %s
  # Per-request timeout. Requests are never retried.
  timeout: %s

# How long each kind of read stays fresh. 0s disables caching for a kind.
cache:
  my_goals_ttl: %s
  pending_approvals_ttl: %s
  context_ttl: %s
  company_goals_ttl: %s
  department_goals_ttl: %s
  team_ttl: %s

dashboard:
  # Quarter used for goal status: auto follows the calendar, q1-q4 pins it
  quarter: %s
  # How often an open dashboard refreshes approvals and team progress
  poll_interval: %s

session:
  # Holds session.json and whygo.log. Empty uses $XDG_STATE_HOME/whygo.
  state_dir: ""

logging:
  enabled: %t
  # debug, info, warn or error
  level: %s
  max_size_mb: %d
  max_backups: %d

tui:
  # default, dracula, nord, mono, or a path to a YAML theme file
  theme: %s
`,
		d.API.BaseURL, d.API.Timeout,
		d.Cache.MyGoalsTTL, d.Cache.PendingApprovalsTTL, d.Cache.ContextTTL,
		d.Cache.CompanyGoalsTTL, d.Cache.DepartmentGoalsTTL, d.Cache.TeamTTL,
		d.Dashboard.Quarter, d.Dashboard.PollInterval,
		d.Logging.Enabled, d.Logging.Level, d.Logging.MaxSizeMB, d.Logging.MaxBackups,
		d.TUI.Theme)
}
