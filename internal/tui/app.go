package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/query"
	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/whygo"
	"github.com/kartel/whygo/internal/wizard"
)

// Screen is a top-level screen of the TUI.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenWizard
	ScreenDashboard
)

// String returns the screen name used in logs.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenWizard:
		return "wizard"
	case ScreenDashboard:
		return "dashboard"
	}
	return "unknown"
}

// Authenticator exchanges an email for credentials.
type Authenticator interface {
	Login(ctx context.Context, email string) (*api.LoginResponse, error)
}

// Backend is everything the signed-in screens call.
type Backend interface {
	wizard.Client
	dashboard.Source
	ApproveGoal(ctx context.Context, goalID string) error
}

var (
	_ Authenticator = (*api.Client)(nil)
	_ Backend       = (*api.Client)(nil)
	_ Backend       = (*query.Client)(nil)
)

// Options configures the TUI.
type Options struct {
	Sessions *session.Manager
	Auth     Authenticator
	Backend  Backend
	Logger   *logging.Logger
	Styles   *styles.Styles

	// Quarter picks the quarter dashboard status is computed for. Nil
	// follows the calendar.
	Quarter func(time.Time) whygo.Quarter
	// PollInterval reloads an open dashboard. Zero disables polling.
	PollInterval time.Duration

	// Start is the screen shown after sign-in. StartStep deep-links into a
	// wizard step by route or short name; it goes through the wizard's
	// entry guard once the onboarding context has loaded.
	Start     Screen
	StartStep string
}

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	opts    Options
}

// New creates a new TUI application
func New(opts Options) *App {
	return &App{model: NewModel(opts), opts: opts}
}

// Run starts the TUI application
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	relaySessionChanges(a.program, a.opts.Sessions)

	_, err := a.program.Run()

	signal.Stop(sigChan)

	return err
}

// relaySessionChanges forwards session.Manager changes to p. Sign-ins and
// sign-outs from other processes and 401s seen by the API client arrive this
// way. The model also changes the session from inside Update (logout), and
// Send blocks until the event loop reads it, so delivery happens on its own
// goroutine.
func relaySessionChanges(p *tea.Program, sessions *session.Manager) {
	sessions.OnChange(func(*session.Session) {
		go p.Send(sessionChangedMsg{})
	})
}
