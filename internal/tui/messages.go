package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/draft"
	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/whygo"
	"github.com/kartel/whygo/internal/wizard"
)

// loginDoneMsg is sent when a sign-in attempt finishes
type loginDoneMsg struct {
	sess *session.Session
	err  error
}

// contextLoadedMsg carries the onboarding context for the wizard
type contextLoadedMsg struct {
	flow *wizard.Flow
	oc   *whygo.OnboardingContext
	err  error
}

// submitDoneMsg is sent when a goal submission finishes
type submitDoneMsg struct {
	flow *wizard.Flow
	t    wizard.Transition
	goal *whygo.IndividualGoal
	err  error
}

// snapshotMsg carries a freshly loaded dashboard. Snapshots from an older
// generation are dropped.
type snapshotMsg struct {
	snap *dashboard.Snapshot
	gen  int
}

// approveDoneMsg is sent when an approval call finishes
type approveDoneMsg struct {
	goalID string
	err    error
}

// pollMsg triggers a dashboard reload. Ticks from an older generation are
// dropped.
type pollMsg struct {
	gen int
}

// sessionChangedMsg reports that session.Manager changed. Relayed messages
// can arrive out of order, so the handler reads the manager's current
// session instead of carrying one.
type sessionChangedMsg struct{}

// Commands

func loginCmd(ctx context.Context, auth Authenticator, sessions *session.Manager, email string) tea.Cmd {
	return func() tea.Msg {
		resp, err := auth.Login(ctx, email)
		if err != nil {
			return loginDoneMsg{err: err}
		}
		sess := resp.Session()
		if err := sessions.Login(sess); err != nil {
			return loginDoneMsg{err: err}
		}
		return loginDoneMsg{sess: &sess}
	}
}

func loadContextCmd(ctx context.Context, flow *wizard.Flow) tea.Cmd {
	return func() tea.Msg {
		oc, err := flow.Load(ctx)
		return contextLoadedMsg{flow: flow, oc: oc, err: err}
	}
}

func submitCmd(ctx context.Context, flow *wizard.Flow, d *draft.Draft) tea.Cmd {
	return func() tea.Msg {
		t, goal, err := flow.Submit(ctx, d)
		return submitDoneMsg{flow: flow, t: t, goal: goal, err: err}
	}
}

// applyCmd runs a transition's side effect. The effect is best-effort and
// reports nothing back.
func applyCmd(ctx context.Context, flow *wizard.Flow, t wizard.Transition) tea.Cmd {
	if t.Effect == wizard.EffectNone {
		return nil
	}
	return func() tea.Msg {
		flow.Apply(ctx, t)
		return nil
	}
}

func loadSnapshotCmd(ctx context.Context, loader *dashboard.Loader, caps whygo.Capabilities, gen int) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg{snap: loader.Load(ctx, caps), gen: gen}
	}
}

func approveCmd(ctx context.Context, backend Backend, goalID string) tea.Cmd {
	return func() tea.Msg {
		return approveDoneMsg{goalID: goalID, err: backend.ApproveGoal(ctx, goalID)}
	}
}

func pollCmd(interval time.Duration, gen int) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollMsg{gen: gen}
	})
}
