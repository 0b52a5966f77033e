package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/query"
	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/tui/keymap"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/tui/view"
	"github.com/kartel/whygo/internal/wizard"
)

// Notices
const (
	signedOutNotice = "You have been signed out. Please sign in again."
	approvedNotice  = "Goal approved"
	approveFailed   = "Failed to approve goal"
	goalsFullNotice = "You already have the maximum number of goals."
)

// Model holds the TUI application state
type Model struct {
	opts   Options
	ctx    context.Context
	keys   *keymap.Keymap
	styles *styles.Styles
	logger *logging.Logger
	loader *dashboard.Loader

	// UI state
	screen   Screen
	sess     *session.Session
	width    int
	height   int
	scroll   int
	quitting bool
	spinner  spinner.Model
	initCmd  tea.Cmd

	notice     string
	noticeKind view.NoticeKind

	login *loginView

	// Wizard
	flow        *wizard.Flow
	form        *goalForm
	loadingCtx  bool
	contextErr  error
	pendingStep string // route entered once the context loads

	// Dashboard
	snap        *dashboard.Snapshot
	loadingSnap bool
	selected    int
	approving   string // goal ID of the approval in flight
	pollGen     int
}

// Optional Backend capabilities provided by the caching client.
type (
	invalidator interface {
		Invalidate(ctx context.Context, kinds ...query.Kind)
	}
	purger interface {
		Purge()
	}
)

// NewModel creates a new TUI model. A valid session in opts.Sessions skips
// the login screen.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Styles == nil {
		opts.Styles = styles.Default()
	}
	if opts.Start == ScreenLogin {
		opts.Start = ScreenWizard
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Styles.Primary

	m := Model{
		opts:        opts,
		ctx:         context.Background(),
		keys:        keymap.DefaultKeymap(),
		styles:      opts.Styles,
		logger:      opts.Logger,
		loader:      dashboard.NewLoader(opts.Backend, opts.Quarter, opts.Logger),
		spinner:     sp,
		pendingStep: opts.StartStep,
	}

	if sess := opts.Sessions.Current(); sess.Valid() {
		m.initCmd = m.startSignedIn(sess)
	} else {
		m.screen = ScreenLogin
		m.login = newLoginView("")
		m.initCmd = textinput.Blink
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// reqCtx carries the session to the API client so a 401 can be matched to
// the token that caused it.
func (m *Model) reqCtx() context.Context {
	return session.NewContext(m.ctx, m.sess)
}

func (m *Model) setNotice(kind view.NoticeKind, text string) {
	m.noticeKind = kind
	m.notice = text
}

// startSignedIn adopts sess and opens the configured start screen.
func (m *Model) startSignedIn(sess *session.Session) tea.Cmd {
	m.sess = sess
	m.login = nil
	m.notice = ""
	m.logger.WithPerson(sess.PersonID).Debug("tui signed in", "start", m.opts.Start.String())
	if m.opts.Start == ScreenDashboard && m.pendingStep == "" {
		return m.openDashboard()
	}
	return m.openWizard()
}

// openWizard starts a fresh onboarding flow and loads its context.
func (m *Model) openWizard() tea.Cmd {
	m.screen = ScreenWizard
	m.scroll = 0
	m.flow = wizard.NewFlow(m.opts.Backend, m.logger)
	m.form = nil
	m.contextErr = nil
	m.loadingCtx = true
	return tea.Batch(loadContextCmd(m.reqCtx(), m.flow), m.spinner.Tick)
}

func (m *Model) openDashboard() tea.Cmd {
	m.screen = ScreenDashboard
	m.scroll = 0
	m.selected = 0
	return m.reloadDashboard()
}

// reloadDashboard starts a new load generation. Polls and snapshots from
// earlier generations are dropped.
func (m *Model) reloadDashboard() tea.Cmd {
	m.pollGen++
	m.loadingSnap = true
	cmd := loadSnapshotCmd(m.reqCtx(), m.loader, m.sess.Capabilities(), m.pollGen)
	if m.snap == nil {
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// resetSignedIn drops everything tied to the previous session.
func (m *Model) resetSignedIn() {
	m.screen = ScreenLogin
	m.sess = nil
	m.flow = nil
	m.form = nil
	m.loadingCtx = false
	m.contextErr = nil
	m.snap = nil
	m.loadingSnap = false
	m.selected = 0
	m.approving = ""
	m.pollGen++
	m.scroll = 0
	m.notice = ""
}

// toLogin returns to the login screen after the server rejected the
// session. It runs at most once per session: later 401s find the login
// screen already up.
func (m *Model) toLogin(notice string) tea.Cmd {
	if m.screen == ScreenLogin {
		return nil
	}
	if m.sess != nil {
		m.opts.Sessions.Invalidate(m.sess)
	}
	m.logger.Info("returning to login", "notice", notice)
	m.resetSignedIn()
	m.login = newLoginView(notice)
	return textinput.Blink
}

// failAuth reports whether err means the session is gone, returning the
// command that sends the person back to sign in.
func (m *Model) failAuth(err error) (tea.Cmd, bool) {
	if !errors.Is(err, errors.ErrUnauthenticated) {
		return nil, false
	}
	return m.toLogin(errors.UserMessage(errors.ErrUnauthenticated)), true
}

func (m *Model) logout() tea.Cmd {
	if err := m.opts.Sessions.Logout(); err != nil {
		m.logger.Error("failed to clear session", "error", err)
		m.setNotice(view.NoticeError, "Could not sign out: "+err.Error())
		return nil
	}
	if p, ok := m.opts.Backend.(purger); ok {
		p.Purge()
	}
	m.resetSignedIn()
	m.login = newLoginView("")
	return textinput.Blink
}

// mode is the keymap mode for the current screen.
func (m Model) mode() keymap.Mode {
	switch m.screen {
	case ScreenWizard:
		if m.onForm() {
			return keymap.ModeForm
		}
		return keymap.ModeWizard
	case ScreenDashboard:
		return keymap.ModeDashboard
	case ScreenLogin:
	}
	return keymap.ModeLogin
}

// onForm reports whether the goal form has the keyboard.
func (m Model) onForm() bool {
	return m.screen == ScreenWizard && m.form != nil && m.flow != nil &&
		m.flow.Controller().Current() == wizard.StepGoals
}

// busy reports whether a spinner should be turning.
func (m Model) busy() bool {
	switch m.screen {
	case ScreenLogin:
		return m.login != nil && m.login.loading
	case ScreenWizard:
		return m.loadingCtx || (m.form != nil && m.form.submitting)
	case ScreenDashboard:
		return m.snap == nil && m.loadingSnap
	}
	return false
}
