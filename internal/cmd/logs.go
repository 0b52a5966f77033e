package cmd

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kartel/whygo/internal/config"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the whygo debug log",
	Long: `View and filter the JSON debug log in the state directory.

Examples:
  # Show the last 50 entries
  whygo logs

  # Show everything
  whygo logs -n 0

  # Warnings and errors from the last hour
  whygo logs --level warn --since 1h

  # One person's API calls
  whygo logs --person p_1 --grep request`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail    int
	logsLevel   string
	logsSince   string
	logsPerson  string
	logsRequest string
	logsGrep    string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsPerson, "person", "", "Only entries logged for this person ID")
	logsCmd.Flags().StringVar(&logsRequest, "request", "", "Only entries for this API request ID")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
}

func runLogs(cmd *cobra.Command, args []string) error {
	// The log is readable even when the rest of the config is invalid.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	filter, err := buildLogFilter(time.Now())
	if err != nil {
		return err
	}

	path := filepath.Join(cfg.Session.ResolveStateDir(), logging.FileName)
	entries, err := logging.ReadLogs(path)
	if err != nil {
		return err
	}
	entries = logging.FilterLogs(entries, filter)
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No matching log entries")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, logging.FormatText(e))
	}
	return nil
}

func buildLogFilter(now time.Time) (logging.LogFilter, error) {
	filter := logging.LogFilter{
		PersonID:        logsPerson,
		RequestID:       logsRequest,
		MessageContains: logsGrep,
	}
	if logsLevel != "" {
		if !slices.Contains(logging.ValidLevels(), strings.ToUpper(logsLevel)) {
			return filter, fmt.Errorf("%w: invalid level %q (want debug, info, warn or error)",
				errors.ErrInvalidInput, logsLevel)
		}
		filter.Level = logging.ParseLevel(logsLevel)
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid --since duration: %v", errors.ErrInvalidInput, err)
		}
		filter.Since = now.Add(-d)
	}
	return filter, nil
}
