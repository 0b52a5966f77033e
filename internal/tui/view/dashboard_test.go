package view

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/testutil"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/whygo"
)

// fakeSource serves fixture data, failing the reads named in fail.
type fakeSource struct {
	goals []whygo.IndividualGoal
	fail  map[string]bool
}

var errDown = errors.New("backend down")

func (f *fakeSource) err(name string) error {
	if f.fail[name] {
		return errDown
	}
	return nil
}

func (f *fakeSource) MyGoals(context.Context) ([]whygo.IndividualGoal, error) {
	return f.goals, f.err("goals")
}

func (f *fakeSource) PendingApprovals(context.Context) ([]whygo.IndividualGoal, error) {
	return []whygo.IndividualGoal{testutil.PendingGoal()}, f.err("pending")
}

func (f *fakeSource) CompanyGoals(context.Context) ([]whygo.CompanyGoal, error) {
	return testutil.CompanyGoals(), f.err("company")
}

func (f *fakeSource) MyDepartmentGoals(context.Context) ([]whygo.DepartmentGoal, error) {
	return testutil.DepartmentGoals(), f.err("department")
}

func (f *fakeSource) MyTeam(context.Context) ([]whygo.Person, error) {
	return []whygo.Person{testutil.Report()}, f.err("team")
}

func load(t *testing.T, src *fakeSource, level whygo.Level) *dashboard.Snapshot {
	t.Helper()
	q1 := func(time.Time) whygo.Quarter { return whygo.Q1 }
	return dashboard.NewLoader(src, q1, nil).Load(context.Background(), whygo.CapabilitiesFor(level))
}

func TestRenderGoalCards(t *testing.T) {
	s := styles.Default()
	tests := []struct {
		name    string
		src     *fakeSource
		want    []string
		notWant []string
	}{
		{
			name:    "empty list offers a goal",
			src:     &fakeSource{},
			want:    []string{"Your Goals", "Add Goal", NoGoals},
			notWant: []string{GoalsLoadFailed},
		},
		{
			name: "goal card",
			src:  &fakeSource{goals: []whygo.IndividualGoal{testutil.PendingGoal()}},
			want: []string{
				"Automate the release checklist",
				"pending approval",
				"80%",
				"◐ Q1",
				"○ Q2",
				"Connected to: Dept Goal #1",
				"1 slightly behind",
			},
		},
		{
			name:    "load failure",
			src:     &fakeSource{fail: map[string]bool{"goals": true}},
			want:    []string{GoalsLoadFailed},
			notWant: []string{"Add Goal", NoGoals},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(RenderGoalCards(s, load(t, tt.src, whygo.LevelIC), 100))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("unexpected %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderGoalCards_FullListHidesAdd(t *testing.T) {
	goals := make([]whygo.IndividualGoal, whygo.MaxGoalsPerPerson)
	for i := range goals {
		goals[i] = testutil.PendingGoal()
	}
	got := ansi.Strip(RenderGoalCards(styles.Default(), load(t, &fakeSource{goals: goals}, whygo.LevelIC), 100))
	if strings.Contains(got, "Add Goal") {
		t.Errorf("Add Goal offered with %d goals", len(goals))
	}
}

func TestRenderLeadership(t *testing.T) {
	s := styles.Default()
	tests := []struct {
		name    string
		level   whygo.Level
		src     *fakeSource
		want    []string
		notWant []string
	}{
		{
			name:    "ic sees placeholder",
			level:   whygo.LevelIC,
			src:     &fakeSource{},
			want:    []string{LeadershipTitle, LeadershipLocked},
			notWant: []string{"Pending Approvals"},
		},
		{
			name:  "manager sees team and approvals",
			level: whygo.LevelManager,
			src:   &fakeSource{},
			want: []string{
				LeadershipSubtitle,
				"Team Progress",
				"GH", "Grace Hopper Engineer",
				"1 pending",
				"Pending Approvals",
				"> Grace Hopper",
				"Automate the release checklist",
			},
			notWant: []string{LeadershipLocked},
		},
		{
			name:    "team failure leaves approvals",
			level:   whygo.LevelExecutive,
			src:     &fakeSource{fail: map[string]bool{"team": true}},
			want:    []string{TeamLoadFailed, "> " + dashboard.UnknownSubmitter},
			notWant: []string{ApprovalsLoadFailed},
		},
		{
			name:  "approvals failure",
			level: whygo.LevelDepartmentHead,
			src:   &fakeSource{fail: map[string]bool{"pending": true}},
			want:  []string{ApprovalsLoadFailed, "Grace Hopper"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(RenderLeadership(s, load(t, tt.src, tt.level), 0, 80))
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("missing %q in:\n%s", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("unexpected %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestRenderFooter(t *testing.T) {
	s := styles.Default()
	if got := ansi.Strip(RenderFooter(s, nil)); got != FooterText {
		t.Errorf("RenderFooter(nil) = %q", got)
	}
	snap := &dashboard.Snapshot{Quarter: whygo.Q3, LoadedAt: time.Date(2026, 8, 1, 9, 5, 0, 0, time.UTC)}
	if got := ansi.Strip(RenderFooter(s, snap)); got != FooterText+" · Q3 · updated 09:05" {
		t.Errorf("RenderFooter() = %q", got)
	}
}
