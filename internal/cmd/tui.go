package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/tui"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/whygo"
	"github.com/kartel/whygo/internal/wizard"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Run the onboarding wizard",
	Long: `Run the five-step onboarding wizard: your profile, company goals,
department goals, your first goal and completion.

Use --step to jump to a step by route or name. Steps after the profile need
the onboarding context and are entered through the profile step when it
has not loaded.

Examples:
  whygo onboard
  whygo onboard --step goals
  whygo onboard --step /onboarding/complete`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runOnboard),
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the goal dashboard",
	Long: `Open the goal dashboard: your goals with quarterly status, the company
and department goals they ladder up to and, for leaders, team progress and
pending approvals. The dashboard refreshes every dashboard.poll_interval.`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runDashboard),
}

var onboardStep string

func init() {
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(dashboardCmd)

	onboardCmd.Flags().StringVar(&onboardStep, "step", "", "Open a wizard step (profile, company, department, goals, complete or its route)")
}

func runOnboard(r *runtime, cmd *cobra.Command, args []string) error {
	if onboardStep != "" {
		if _, ok := wizard.StepForPath(onboardStep); !ok {
			return fmt.Errorf("unknown step %q", onboardStep)
		}
	}
	return runTUI(r, tui.ScreenWizard, onboardStep)
}

func runDashboard(r *runtime, cmd *cobra.Command, args []string) error {
	return runTUI(r, tui.ScreenDashboard, "")
}

// runTUI starts the interactive program. Sessions written by other whygo
// processes reach it through the session file watcher.
func runTUI(r *runtime, start tui.Screen, step string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("%s needs an interactive terminal", start)
	}

	palette, err := styles.ResolvePalette(r.cfg.TUI.Theme)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}

	watcher := session.NewWatcher(r.sessions, r.store.Path(), r.logger)
	if err := watcher.Start(); err != nil {
		// Without the watcher the TUI still works; it just misses sign-ins
		// from other processes.
		r.logger.Warn("session watcher unavailable", "error", err)
	} else {
		defer watcher.Stop()
	}

	dashCfg := r.cfg.Dashboard
	app := tui.New(tui.Options{
		Sessions:     r.sessions,
		Auth:         r.api,
		Backend:      r.backend,
		Logger:       r.logger,
		Styles:       styles.New(palette),
		Quarter:      func(now time.Time) whygo.Quarter { return dashCfg.ResolveQuarter(now) },
		PollInterval: dashCfg.PollInterval,
		Start:        start,
		StartStep:    step,
	})
	return app.Run()
}
