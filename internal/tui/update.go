package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/tui/keymap"
	"github.com/kartel/whygo/internal/tui/view"
	"github.com/kartel/whygo/internal/wizard"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		return m.handleLoginDone(msg)

	case sessionChangedMsg:
		return m.handleSessionChanged(msg)

	case contextLoadedMsg:
		return m.handleContextLoaded(msg)

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case snapshotMsg:
		return m.handleSnapshot(msg)

	case pollMsg:
		if msg.gen != m.pollGen || m.screen != ScreenDashboard || m.loadingSnap {
			return m, nil
		}
		m.loadingSnap = true
		return m, loadSnapshotCmd(m.reqCtx(), m.loader, m.sess.Capabilities(), m.pollGen)

	case approveDoneMsg:
		return m.handleApproveDone(msg)
	}

	// Cursor blinks and other component messages go to whatever has focus.
	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.screen == ScreenLogin && m.login != nil:
		m.login.email, cmd = m.login.email.Update(msg)
	case m.onForm():
		cmd = m.form.update(msg)
	}
	return m, cmd
}

func (m Model) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	if m.screen != ScreenLogin || m.login == nil {
		return m, nil
	}
	if msg.err != nil {
		m.logger.Warn("sign-in failed", "error", msg.err)
		m.login.fail(msg.err)
		return m, nil
	}
	return m, m.startSignedIn(msg.sess)
}

// handleSessionChanged follows sign-ins and sign-outs made outside this
// model: other processes, or the API client rejecting the token.
func (m Model) handleSessionChanged(sessionChangedMsg) (tea.Model, tea.Cmd) {
	sess := m.opts.Sessions.Current()
	if !sess.Valid() {
		return m, m.toLogin(signedOutNotice)
	}
	if m.sess != nil && m.sess.Token == sess.Token {
		return m, nil
	}
	return m, m.startSignedIn(sess)
}

func (m Model) handleContextLoaded(msg contextLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.flow != m.flow || m.flow == nil {
		return m, nil
	}
	m.loadingCtx = false
	if msg.err != nil {
		if cmd, ok := m.failAuth(msg.err); ok {
			return m, cmd
		}
		m.logger.Warn("failed to load onboarding context", "error", msg.err)
		m.contextErr = msg.err
		return m, nil
	}
	m.contextErr = nil
	return m, m.enterPendingStep()
}

// enterPendingStep applies a deep link through the wizard's entry guard.
func (m *Model) enterPendingStep() tea.Cmd {
	path := m.pendingStep
	m.pendingStep = ""
	if path == "" {
		return m.enterStep()
	}
	t, err := m.flow.Controller().Navigate(path)
	if err != nil {
		m.logger.Warn("ignoring unknown wizard step", "step", path, "error", err)
		m.setNotice(view.NoticeError, err.Error())
		return m.enterStep()
	}
	if t.Redirected {
		m.logger.Debug("wizard step redirected", "requested", path, "step", t.To.String())
	}
	return tea.Batch(m.enterStep(), applyCmd(m.reqCtx(), m.flow, t))
}

// enterStep prepares the screen the controller now shows.
func (m *Model) enterStep() tea.Cmd {
	m.scroll = 0
	ctrl := m.flow.Controller()
	if ctrl.Current() != wizard.StepGoals || m.form != nil {
		return nil
	}
	oc := ctrl.Context()
	if oc == nil {
		return nil
	}
	m.form = newGoalForm(oc)
	return m.form.setFocus(0)
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	if msg.flow != m.flow || m.form == nil {
		return m, nil
	}
	m.form.submitting = false
	if msg.err != nil {
		if cmd, ok := m.failAuth(msg.err); ok {
			return m, cmd
		}
		m.form.fail(msg.err)
		return m, nil
	}
	m.logger.WithPerson(m.sess.PersonID).Info("goal created", "goal_id", msg.goal.ID)
	// The controller is on the complete step now; a later visit to the
	// goals step starts a blank form.
	m.form = nil
	m.scroll = 0
	return m, nil
}

func (m Model) handleSnapshot(msg snapshotMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.pollGen || m.screen != ScreenDashboard {
		return m, nil
	}
	m.loadingSnap = false
	if msg.snap.Unauthenticated() {
		return m, m.toLogin(errors.UserMessage(errors.ErrUnauthenticated))
	}
	m.snap = msg.snap
	if n := len(m.snap.Approvals); m.selected >= n {
		m.selected = max(n-1, 0)
	}
	return m, pollCmd(m.opts.PollInterval, m.pollGen)
}

func (m Model) handleApproveDone(msg approveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.goalID != m.approving {
		return m, nil
	}
	m.approving = ""
	if msg.err != nil {
		if cmd, ok := m.failAuth(msg.err); ok {
			return m, cmd
		}
		m.logger.Warn("approval failed", "goal_id", msg.goalID, "error", msg.err)
		text := approveFailed
		if errors.IsUserFacing(msg.err) {
			text += ": " + errors.UserMessage(msg.err)
		}
		m.setNotice(view.NoticeError, text)
		return m, nil
	}
	m.setNotice(view.NoticeSuccess, approvedNotice)
	return m, m.reloadDashboard()
}

// handleKey resolves a key press to a command. Keys without a binding are
// typed into the focused input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.mode()
	if mode == keymap.ModeForm && m.form.current().selector() {
		if cmd, ok := m.keys.GetBinding(msg, keymap.ModeSelect); ok {
			return m.run(cmd)
		}
	}
	if cmd, ok := m.keys.GetBinding(msg, mode); ok {
		return m.run(cmd)
	}

	switch mode {
	case keymap.ModeLogin:
		if m.login.loading {
			return m, nil
		}
		m.login.err = ""
		return m.forward(msg)
	case keymap.ModeForm:
		if m.form.submitting {
			return m, nil
		}
		return m.forward(msg)
	case keymap.ModeWizard, keymap.ModeSelect, keymap.ModeDashboard:
	}
	return m, nil
}

// run executes a bound command.
func (m Model) run(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdQuit:
		m.quitting = true
		return m, tea.Quit
	case keymap.CmdLogout:
		return m, m.logout()
	case keymap.CmdScrollDown:
		m.scroll += max(BodyHeightFor(m.height)/2, 1)
		return m, nil
	case keymap.CmdScrollUp:
		m.scroll = max(m.scroll-max(BodyHeightFor(m.height)/2, 1), 0)
		return m, nil
	}

	switch m.screen {
	case ScreenLogin:
		if cmd == keymap.CmdSubmit {
			return m, m.submitLogin()
		}
	case ScreenWizard:
		return m, m.runWizard(cmd)
	case ScreenDashboard:
		return m, m.runDashboard(cmd)
	}
	return m, nil
}

func (m *Model) submitLogin() tea.Cmd {
	if m.login.loading {
		return nil
	}
	email := m.login.value()
	if email == "" {
		m.login.err = "Enter your work email"
		return nil
	}
	m.login.loading = true
	m.login.err = ""
	m.login.notice = ""
	return tea.Batch(loginCmd(m.ctx, m.opts.Auth, m.opts.Sessions, email), m.spinner.Tick)
}

func (m *Model) runWizard(cmd keymap.Command) tea.Cmd {
	if m.flow == nil || m.loadingCtx {
		if cmd == keymap.CmdOpenDashboard {
			return m.openDashboard()
		}
		return nil
	}
	ctrl := m.flow.Controller()

	switch cmd {
	case keymap.CmdContinue:
		if ctrl.Current() == wizard.StepComplete {
			return m.openDashboard()
		}
		if ctrl.Context() == nil {
			// The profile could not load; try again.
			m.loadingCtx = true
			m.contextErr = nil
			return tea.Batch(loadContextCmd(m.reqCtx(), m.flow), m.spinner.Tick)
		}
		t, err := ctrl.Continue()
		if err != nil {
			return nil
		}
		return tea.Batch(m.enterStep(), applyCmd(m.reqCtx(), m.flow, t))

	case keymap.CmdBack:
		if m.form != nil && m.form.submitting {
			return nil
		}
		if _, ok := ctrl.Back(); ok {
			return m.enterStep()
		}
		return nil

	case keymap.CmdOpenDashboard:
		return m.openDashboard()
	}

	if !m.onForm() {
		return nil
	}
	f := m.form
	switch cmd {
	case keymap.CmdNextField:
		return f.next()
	case keymap.CmdPrevField:
		return f.prev()
	case keymap.CmdCycleNext:
		f.cycle(1)
	case keymap.CmdCyclePrev:
		f.cycle(-1)
	case keymap.CmdAddOutcome:
		return f.addOutcome()
	case keymap.CmdRemoveOutcome:
		return f.removeOutcome()
	case keymap.CmdSubmit:
		return m.submitGoal()
	}
	return nil
}

// submitGoal validates the form locally and sends it. Validation errors are
// shown inline without a request.
func (m *Model) submitGoal() tea.Cmd {
	f := m.form
	if f.submitting || m.flow.Controller().Submitting() {
		return nil
	}
	d, err := f.draft()
	if err != nil {
		f.fail(err)
		return nil
	}
	f.errs = nil
	f.submitErr = ""
	f.submitting = true
	return tea.Batch(submitCmd(m.reqCtx(), m.flow, d), m.spinner.Tick)
}

func (m *Model) runDashboard(cmd keymap.Command) tea.Cmd {
	switch cmd {
	case keymap.CmdSelectNext:
		if m.snap != nil && m.selected < len(m.snap.Approvals)-1 {
			m.selected++
		}
	case keymap.CmdSelectPrev:
		if m.selected > 0 {
			m.selected--
		}
	case keymap.CmdApprove:
		return m.approveSelected()
	case keymap.CmdNewGoal:
		if m.snap == nil {
			return nil
		}
		if !m.snap.CanAddGoal {
			m.setNotice(view.NoticeInfo, goalsFullNotice)
			return nil
		}
		m.notice = ""
		m.pendingStep = wizard.StepGoals.Path()
		return m.openWizard()
	case keymap.CmdRefresh:
		if inv, ok := m.opts.Backend.(invalidator); ok {
			inv.Invalidate(m.reqCtx())
		}
		m.notice = ""
		return m.reloadDashboard()
	}
	return nil
}

func (m *Model) approveSelected() tea.Cmd {
	if m.snap == nil || !m.snap.Capabilities.CanApproveGoals || m.approving != "" {
		return nil
	}
	if m.selected < 0 || m.selected >= len(m.snap.Approvals) {
		return nil
	}
	id := m.snap.Approvals[m.selected].Goal.ID
	m.approving = id
	m.notice = ""
	return approveCmd(m.reqCtx(), m.opts.Backend, id)
}
