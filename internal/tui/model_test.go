package tui

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/config"
	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/query"
	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/testutil"
	"github.com/kartel/whygo/internal/tui/keymap"
	"github.com/kartel/whygo/internal/whygo"
	"github.com/kartel/whygo/internal/wizard"
)

// harness wires a model to the fake backend the way the CLI does: the API
// client drops the session on 401 and the query client caches reads.
type harness struct {
	srv      *testutil.FakeServer
	api      *api.Client
	backend  *query.Client
	sessions *session.Manager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := testutil.NewFakeServer(t)
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	sessions := session.NewManager(store, nil)
	client := api.New(api.Options{
		BaseURL: srv.URL,
		OnUnauthorized: func(s *session.Session) {
			sessions.Invalidate(s)
		},
	})
	return &harness{
		srv:      srv,
		api:      client,
		backend:  query.New(client, query.TTLsFromConfig(config.Default().Cache)),
		sessions: sessions,
	}
}

func (h *harness) options(start Screen, step string) Options {
	return Options{
		Sessions:  h.sessions,
		Auth:      h.api,
		Backend:   h.backend,
		Quarter:   func(_ time.Time) whygo.Quarter { return whygo.Q1 },
		Start:     start,
		StartStep: step,
	}
}

// signIn persists a session for the fixture account behind email.
func (h *harness) signIn(t *testing.T, email string) {
	t.Helper()
	resp, err := h.api.Login(t.Context(), email)
	if err != nil {
		t.Fatalf("Login(%s) error = %v", email, err)
	}
	if err := h.sessions.Login(resp.Session()); err != nil {
		t.Fatalf("sessions.Login() error = %v", err)
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

// loadContext completes the model's pending context load.
func loadContext(t *testing.T, m Model) Model {
	t.Helper()
	if !m.loadingCtx {
		t.Fatal("no context load in flight")
	}
	m, _ = update(t, m, loadContextCmd(m.reqCtx(), m.flow)())
	return m
}

// loadSnapshot completes the model's pending dashboard load.
func loadSnapshot(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	if !m.loadingSnap {
		t.Fatal("no dashboard load in flight")
	}
	return update(t, m, loadSnapshotCmd(m.reqCtx(), m.loader, m.sess.Capabilities(), m.pollGen)())
}

func TestModel_LoginFlow(t *testing.T) {
	h := newHarness(t)
	m := NewModel(h.options(ScreenWizard, ""))
	if m.screen != ScreenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.mode() != keymap.ModeLogin {
		t.Errorf("mode = %v", m.mode())
	}

	m = typeText(t, m, testutil.ManagerEmail)
	m, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil || !m.login.loading {
		t.Fatal("enter did not start signing in")
	}
	if got := ansi.Strip(m.View()); !strings.Contains(got, loginBusy) {
		t.Errorf("view while signing in missing %q", loginBusy)
	}

	m, _ = update(t, m, loginCmd(m.ctx, h.api, h.sessions, testutil.ManagerEmail)())
	if m.screen != ScreenWizard {
		t.Fatalf("screen after login = %v, want wizard", m.screen)
	}
	if m.sess == nil || m.sess.PersonID != "p_1" {
		t.Fatalf("session = %+v", m.sess)
	}
	if cur := h.sessions.Current(); cur == nil || cur.Token != testutil.ManagerToken {
		t.Errorf("persisted session = %+v", cur)
	}

	// The manager's own change notification is a no-op.
	before := m.flow
	m, _ = update(t, m, sessionChangedMsg{})
	if m.flow != before {
		t.Error("duplicate session notification restarted the wizard")
	}

	m = loadContext(t, m)
	if got := m.flow.Controller().Current(); got != wizard.StepProfile {
		t.Errorf("step = %v, want profile", got)
	}
	if got := h.srv.OnboardingStatus("p_1"); got != whygo.OnboardingInProgress {
		t.Errorf("onboarding status = %s, want in_progress", got)
	}
	view := ansi.Strip(m.View())
	for _, want := range []string{"WhyGO 2026", "Ada Lovelace", "Your Profile", "Reports to"} {
		if !strings.Contains(view, want) {
			t.Errorf("profile view missing %q", want)
		}
	}
}

func TestModel_LoginErrors(t *testing.T) {
	h := newHarness(t)
	m := NewModel(h.options(ScreenWizard, ""))

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd != nil || m.login.loading {
		t.Error("empty email started a sign-in")
	}
	if m.login.err == "" {
		t.Error("empty email shows no error")
	}

	m = typeText(t, m, "nobody@kartel.example")
	if m.login.err != "" {
		t.Errorf("typing did not clear the error: %q", m.login.err)
	}
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = update(t, m, loginCmd(m.ctx, h.api, h.sessions, "nobody@kartel.example")())
	if m.screen != ScreenLogin {
		t.Fatalf("screen = %v, want login", m.screen)
	}
	if m.login.err != "Email not found in system" {
		t.Errorf("login error = %q", m.login.err)
	}
	if m.login.loading {
		t.Error("still loading after failure")
	}
}

func TestModel_WizardNavigation(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ICEmail)
	m := NewModel(h.options(ScreenWizard, ""))
	if m.screen != ScreenWizard {
		t.Fatalf("screen = %v, want wizard", m.screen)
	}

	// Keys do nothing until the context arrives.
	m, _ = press(t, m, tea.KeyEnter)
	m = loadContext(t, m)
	if got := m.flow.Controller().Current(); got != wizard.StepProfile {
		t.Fatalf("step = %v, want profile", got)
	}

	for _, want := range []wizard.Step{wizard.StepCompany, wizard.StepDepartment, wizard.StepGoals} {
		m, _ = press(t, m, tea.KeyEnter)
		if got := m.flow.Controller().Current(); got != want {
			t.Fatalf("step = %v, want %v", got, want)
		}
	}
	if m.form == nil || m.mode() != keymap.ModeForm {
		t.Fatalf("goal form not active: form=%v mode=%v", m.form != nil, m.mode())
	}

	// Right arrow cycles the parent selector instead of continuing.
	m, _ = press(t, m, tea.KeyRight)
	if m.form.parent != 0 {
		t.Errorf("parent = %d, want 0", m.form.parent)
	}
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "Fewer manual steps")
	if got := m.form.why.Value(); got != "Fewer manual steps" {
		t.Errorf("why = %q", got)
	}

	m, _ = press(t, m, tea.KeyEsc)
	if got := m.flow.Controller().Current(); got != wizard.StepDepartment {
		t.Errorf("step after esc = %v, want department", got)
	}
	m, _ = press(t, m, tea.KeyEnter)
	if got := m.form.why.Value(); got != "Fewer manual steps" {
		t.Errorf("form lost its input on back and forth: why = %q", got)
	}
}

func TestModel_GoalSubmit(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenWizard, "goals"))
	m = loadContext(t, m)
	if got := m.flow.Controller().Current(); got != wizard.StepGoals {
		t.Fatalf("deep link step = %v, want goals", got)
	}

	// Invalid input is reported inline without a request.
	m, cmd := press(t, m, tea.KeyCtrlS)
	if cmd != nil || m.form.submitting {
		t.Fatal("invalid form was submitted")
	}
	if len(m.form.errs) == 0 {
		t.Fatal("no inline errors")
	}
	if got := h.srv.Calls(http.MethodPost, "/api/individuals/create"); got != 0 {
		t.Errorf("create calls = %d, want 0", got)
	}

	fill(m.form)
	m, cmd = press(t, m, tea.KeyCtrlS)
	if cmd == nil || !m.form.submitting {
		t.Fatal("valid form not submitted")
	}
	// A second ctrl+s while in flight does nothing.
	if _, again := press(t, m, tea.KeyCtrlS); again != nil {
		t.Error("second submit while in flight")
	}

	d, err := m.form.draft()
	if err != nil {
		t.Fatal(err)
	}
	m, _ = update(t, m, submitCmd(m.reqCtx(), m.flow, d)())
	if got := m.flow.Controller().Current(); got != wizard.StepComplete {
		t.Fatalf("step after submit = %v, want complete", got)
	}
	if m.form != nil {
		t.Error("form kept after a successful submit")
	}
	if got := len(h.srv.Goals("p_1")); got != 1 {
		t.Errorf("server goals = %d, want 1", got)
	}
	if got := h.srv.OnboardingStatus("p_1"); got != whygo.OnboardingCompleted {
		t.Errorf("onboarding status = %s, want completed", got)
	}

	m, _ = press(t, m, tea.KeyEnter)
	if m.screen != ScreenDashboard {
		t.Errorf("screen after complete = %v, want dashboard", m.screen)
	}
}

func TestModel_SubmitServerError(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	h.srv.Fail(http.MethodPost, "/api/individuals/create", http.StatusBadRequest, "Maximum of 3 goals per person")
	m := NewModel(h.options(ScreenWizard, "/onboarding/goals"))
	m = loadContext(t, m)
	fill(m.form)
	m, _ = press(t, m, tea.KeyCtrlS)

	d, _ := m.form.draft()
	m, _ = update(t, m, submitCmd(m.reqCtx(), m.flow, d)())
	if got := m.flow.Controller().Current(); got != wizard.StepGoals {
		t.Errorf("step = %v, want goals", got)
	}
	if m.form.submitErr != "Maximum of 3 goals per person" {
		t.Errorf("submitErr = %q", m.form.submitErr)
	}
	if m.form.submitting {
		t.Error("still submitting")
	}
}

func TestModel_DeepLinkComplete(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenWizard, "complete"))
	m, cmd := update(t, m, loadContextCmd(m.reqCtx(), m.flow)())
	if got := m.flow.Controller().Current(); got != wizard.StepComplete {
		t.Fatalf("step = %v, want complete", got)
	}
	if cmd == nil {
		t.Fatal("no completion effect")
	}
	if got := h.srv.OnboardingStatus("p_1"); got == whygo.OnboardingCompleted {
		t.Fatal("completion sent before the effect ran")
	}
	applyCmd(m.reqCtx(), m.flow, wizard.Transition{To: wizard.StepComplete, Effect: wizard.EffectMarkComplete})()
	if got := h.srv.OnboardingStatus("p_1"); got != whygo.OnboardingCompleted {
		t.Errorf("onboarding status = %s, want completed", got)
	}
}

func TestModel_UnknownDeepLink(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenWizard, "/onboarding/nowhere"))
	m = loadContext(t, m)
	if got := m.flow.Controller().Current(); got != wizard.StepProfile {
		t.Errorf("step = %v, want profile", got)
	}
	if m.notice == "" {
		t.Error("unknown step not reported")
	}
}

func TestModel_ContextFailure(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	h.srv.FailOnce(http.MethodGet, "/api/onboarding/context", http.StatusInternalServerError, "boom")
	m := NewModel(h.options(ScreenWizard, ""))
	m = loadContext(t, m)
	if m.contextErr == nil {
		t.Fatal("contextErr not set")
	}
	if got := ansi.Strip(m.View()); !strings.Contains(got, "Failed to load profile data.") {
		t.Errorf("view missing profile failure:\n%s", got)
	}

	// Continue retries instead of advancing.
	m, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil || !m.loadingCtx {
		t.Fatal("continue did not retry the load")
	}
	m = loadContext(t, m)
	if m.contextErr != nil || m.flow.Controller().Context() == nil {
		t.Errorf("retry failed: %v", m.contextErr)
	}
}

func TestModel_UnauthorizedReturnsToLoginOnce(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	var changes []*session.Session
	h.sessions.OnChange(func(s *session.Session) { changes = append(changes, s) })

	m := NewModel(h.options(ScreenDashboard, ""))
	if m.screen != ScreenDashboard {
		t.Fatalf("screen = %v, want dashboard", m.screen)
	}
	h.srv.Revoke(testutil.ManagerToken)

	m, _ = loadSnapshot(t, m)
	if m.screen != ScreenLogin {
		t.Fatalf("screen after 401 = %v, want login", m.screen)
	}
	if h.sessions.Current() != nil {
		t.Error("session survived a 401")
	}
	if len(changes) != 1 || changes[0] != nil {
		t.Errorf("session changes = %v, want one sign-out", changes)
	}
	notice := m.login.notice
	if notice == "" {
		t.Error("no expiry notice on the login screen")
	}

	// The relayed sign-out and late results change nothing.
	login := m.login
	m, _ = update(t, m, sessionChangedMsg{})
	m, _ = update(t, m, approveDoneMsg{goalID: "ig_9"})
	if m.login != login || m.login.notice != notice {
		t.Error("login screen rebuilt by a second sign-out")
	}
}

func TestModel_Logout(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenDashboard, ""))
	m, _ = loadSnapshot(t, m)
	if h.backend.Len() == 0 {
		t.Fatal("dashboard load cached nothing")
	}

	m, _ = press(t, m, tea.KeyCtrlL)
	if m.screen != ScreenLogin || m.sess != nil {
		t.Fatalf("screen = %v, sess = %v after logout", m.screen, m.sess)
	}
	if h.sessions.Current() != nil {
		t.Error("session still current")
	}
	if got := h.backend.Len(); got != 0 {
		t.Errorf("cache entries after logout = %d, want 0", got)
	}
}

func TestProgram_LogoutReturnsToLogin(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ICEmail)

	p := tea.NewProgram(NewModel(h.options(ScreenDashboard, "")),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	relaySessionChanges(p, h.sessions)

	type result struct {
		final tea.Model
		err   error
	}
	done := make(chan result, 1)
	go func() {
		final, err := p.Run()
		done <- result{final, err}
	}()
	go func() {
		p.Send(tea.KeyMsg{Type: tea.KeyCtrlL})
		p.Quit()
	}()

	select {
	case res := <-done:
		if res.err != nil {
			t.Fatalf("Run() error = %v", res.err)
		}
		m, ok := res.final.(Model)
		if !ok {
			t.Fatalf("final model is %T", res.final)
		}
		if m.screen != ScreenLogin || m.sess != nil {
			t.Errorf("screen = %v, sess = %v after logout", m.screen, m.sess)
		}
	case <-time.After(5 * time.Second):
		p.Kill()
		<-done
		t.Fatal("event loop stopped processing messages after logout")
	}
	if h.sessions.Current() != nil {
		t.Error("session still current")
	}
}

func TestModel_ExternalSignIn(t *testing.T) {
	h := newHarness(t)
	m := NewModel(h.options(ScreenDashboard, ""))
	h.signIn(t, testutil.ICEmail)

	m, _ = update(t, m, sessionChangedMsg{})
	if m.screen != ScreenDashboard {
		t.Fatalf("screen = %v, want dashboard", m.screen)
	}
	if m.sess.PersonID != "p_2" {
		t.Errorf("person = %s, want p_2", m.sess.PersonID)
	}
}

func TestModel_DashboardApprove(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenDashboard, ""))
	m, poll := loadSnapshot(t, m)
	if poll != nil {
		t.Error("polling with a zero interval")
	}
	if got := len(m.snap.Approvals); got != 1 {
		t.Fatalf("approvals = %d, want 1", got)
	}
	view := ansi.Strip(m.View())
	for _, want := range []string{"Pending Approvals", "> Grace Hopper", "2026 WhyGO Goals"} {
		if !strings.Contains(view, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd == nil || m.approving != "ig_9" {
		t.Fatalf("approve not started: approving = %q", m.approving)
	}
	if _, again := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}); again != nil {
		t.Error("second approval while one is in flight")
	}

	gen := m.pollGen
	m, cmd = update(t, m, approveCmd(m.reqCtx(), m.opts.Backend, "ig_9")())
	if m.notice != approvedNotice {
		t.Errorf("notice = %q", m.notice)
	}
	if cmd == nil || m.pollGen != gen+1 {
		t.Error("approval did not reload the dashboard")
	}
	if got := h.srv.Goals("p_2")[0].Status; got != whygo.GoalStatusApproved {
		t.Errorf("goal status = %s, want approved", got)
	}

	m, _ = loadSnapshot(t, m)
	if got := len(m.snap.Approvals); got != 0 {
		t.Errorf("approvals after approve = %d, want 0", got)
	}
}

func TestModel_ApproveFailure(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenDashboard, ""))
	m, _ = loadSnapshot(t, m)
	h.srv.Fail(http.MethodPost, "/api/individuals/ig_9/approve", http.StatusForbidden, "Not your report")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, cmd := update(t, m, approveCmd(m.reqCtx(), m.opts.Backend, "ig_9")())
	if cmd != nil {
		t.Error("failed approval reloaded the dashboard")
	}
	if m.notice != approveFailed+": Not your report" {
		t.Errorf("notice = %q", m.notice)
	}
	if m.approving != "" {
		t.Error("approval still marked in flight")
	}
}

func TestModel_ICCannotApprove(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ICEmail)
	m := NewModel(h.options(ScreenDashboard, ""))
	m, _ = loadSnapshot(t, m)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if cmd != nil || m.approving != "" {
		t.Error("IC started an approval")
	}
	if got := ansi.Strip(m.View()); !strings.Contains(got, "Automate the release checklist") {
		t.Errorf("IC dashboard missing own goal:\n%s", got)
	}
}

func TestModel_NewGoalFromDashboard(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ICEmail)
	m := NewModel(h.options(ScreenDashboard, ""))
	m, _ = loadSnapshot(t, m)
	if !m.snap.CanAddGoal {
		t.Fatal("IC with one goal cannot add another")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if cmd == nil || m.screen != ScreenWizard {
		t.Fatalf("screen = %v, want wizard", m.screen)
	}
	m = loadContext(t, m)
	if got := m.flow.Controller().Current(); got != wizard.StepGoals {
		t.Errorf("step = %v, want goals", got)
	}
	if m.form == nil {
		t.Error("goal form not created")
	}
}

func TestModel_StaleLoadsDropped(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	opts := h.options(ScreenDashboard, "")
	opts.PollInterval = time.Minute
	m := NewModel(opts)

	stale := m.pollGen - 1
	m, _ = update(t, m, snapshotMsg{snap: &dashboard.Snapshot{}, gen: stale})
	if m.snap != nil {
		t.Error("stale snapshot applied")
	}

	m, poll := loadSnapshot(t, m)
	if poll == nil {
		t.Fatal("no poll scheduled")
	}
	if _, cmd := update(t, m, pollMsg{gen: stale}); cmd != nil {
		t.Error("stale poll reloaded")
	}
	m, cmd := update(t, m, pollMsg{gen: m.pollGen})
	if cmd == nil || !m.loadingSnap {
		t.Error("current poll did not reload")
	}

	// Refresh starts a new generation, dropping the poll's result.
	gen := m.pollGen
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.pollGen != gen+1 {
		t.Errorf("pollGen = %d, want %d", m.pollGen, gen+1)
	}
}

func TestModel_Scroll(t *testing.T) {
	h := newHarness(t)
	h.signIn(t, testutil.ManagerEmail)
	m := NewModel(h.options(ScreenWizard, "goals"))
	m = loadContext(t, m)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})

	top := ansi.Strip(m.View())
	if !strings.Contains(top, "Create Your Individual Goal") {
		t.Fatalf("top of form missing title:\n%s", top)
	}
	m, _ = press(t, m, tea.KeyPgDown)
	if m.scroll == 0 {
		t.Fatal("page down did not scroll")
	}
	if got := ansi.Strip(m.View()); got == top {
		t.Error("view unchanged after scrolling")
	}
	m, _ = press(t, m, tea.KeyPgUp)
	if m.scroll != 0 {
		t.Errorf("scroll = %d after page up, want 0", m.scroll)
	}
}

func TestModel_Quit(t *testing.T) {
	h := newHarness(t)
	m := NewModel(h.options(ScreenWizard, ""))
	m, cmd := press(t, m, tea.KeyCtrlC)
	if cmd == nil || !m.quitting {
		t.Fatal("ctrl+c did not quit")
	}
	if m.View() != "" {
		t.Error("view not cleared on quit")
	}
}
