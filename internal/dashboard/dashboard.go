// Package dashboard assembles the goal dashboard: the person's goal cards,
// the company and department goals context, team progress and pending
// approvals. Panels load concurrently and fail independently; a failed
// panel carries its own error and the rest of the snapshot is still usable.
package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/progress"
	"github.com/kartel/whygo/internal/whygo"
)

// Panel names a dashboard panel.
type Panel string

const (
	PanelGoals     Panel = "Your Goals"
	PanelContext   Panel = "Goals Context"
	PanelTeam      Panel = "Team Progress"
	PanelApprovals Panel = "Pending Approvals"
)

// UnknownSubmitter labels an approval whose submitter is not in the team.
const UnknownSubmitter = "Team Member"

// Source is the read API the dashboard needs.
type Source interface {
	MyGoals(ctx context.Context) ([]whygo.IndividualGoal, error)
	PendingApprovals(ctx context.Context) ([]whygo.IndividualGoal, error)
	CompanyGoals(ctx context.Context) ([]whygo.CompanyGoal, error)
	MyDepartmentGoals(ctx context.Context) ([]whygo.DepartmentGoal, error)
	MyTeam(ctx context.Context) ([]whygo.Person, error)
}

// Snapshot is one load of every panel.
type Snapshot struct {
	Quarter      whygo.Quarter
	Capabilities whygo.Capabilities
	LoadedAt     time.Time

	Goals      []GoalCard
	CanAddGoal bool
	Summary    progress.Summary

	Context ContextPanel
	Team    []TeamRow

	Approvals []ApprovalRow

	errs map[Panel]error
}

// Err returns the panel's load error, or nil.
func (s *Snapshot) Err(p Panel) error {
	return s.errs[p]
}

// Unauthenticated reports whether any panel failed because the session was
// rejected.
func (s *Snapshot) Unauthenticated() bool {
	for _, err := range s.errs {
		if errors.Is(err, errors.ErrUnauthenticated) {
			return true
		}
	}
	return false
}

// Loader builds snapshots from a Source.
type Loader struct {
	src     Source
	quarter func(time.Time) whygo.Quarter
	now     func() time.Time
	logger  *logging.Logger
}

// NewLoader creates a loader. quarter picks the quarter goal status is
// computed for; nil follows the calendar.
func NewLoader(src Source, quarter func(time.Time) whygo.Quarter, logger *logging.Logger) *Loader {
	if quarter == nil {
		quarter = progress.CurrentQuarter
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Loader{src: src, quarter: quarter, now: time.Now, logger: logger}
}

// Load fetches every panel the capabilities unlock. It never fails as a
// whole; see Snapshot.Err.
func (l *Loader) Load(ctx context.Context, caps whygo.Capabilities) *Snapshot {
	now := l.now()
	snap := &Snapshot{
		Quarter:      l.quarter(now),
		Capabilities: caps,
		LoadedAt:     now,
		errs:         make(map[Panel]error),
	}

	var (
		mu         sync.Mutex
		goals      []whygo.IndividualGoal
		company    []whygo.CompanyGoal
		department []whygo.DepartmentGoal
		team       []whygo.Person
		pending    []whygo.IndividualGoal
		teamErr    error
	)
	fail := func(p Panel, err error) {
		mu.Lock()
		defer mu.Unlock()
		snap.errs[p] = errors.Join(snap.errs[p], err)
	}

	// Every fetch returns nil to the group so one failure never cancels the
	// others.
	var g errgroup.Group
	g.Go(func() error {
		v, err := l.src.MyGoals(ctx)
		if err != nil {
			fail(PanelGoals, err)
			return nil
		}
		goals = v
		return nil
	})
	g.Go(func() error {
		v, err := l.src.CompanyGoals(ctx)
		if err != nil {
			fail(PanelContext, err)
			return nil
		}
		company = v
		return nil
	})
	g.Go(func() error {
		v, err := l.src.MyDepartmentGoals(ctx)
		if err != nil {
			fail(PanelContext, err)
			return nil
		}
		department = v
		return nil
	})
	if caps.CanViewTeam {
		g.Go(func() error {
			v, err := l.src.MyTeam(ctx)
			if err != nil {
				teamErr = err
				fail(PanelTeam, err)
				return nil
			}
			team = v
			return nil
		})
	}
	if caps.CanViewTeam || caps.CanApproveGoals {
		g.Go(func() error {
			v, err := l.src.PendingApprovals(ctx)
			if err != nil {
				fail(PanelApprovals, err)
				return nil
			}
			pending = v
			return nil
		})
	}
	_ = g.Wait()

	if snap.errs[PanelGoals] == nil {
		snap.Goals = GoalCards(goals, company, snap.Quarter)
		snap.CanAddGoal = len(goals) < whygo.MaxGoalsPerPerson
		snap.Summary = summarize(goals, snap.Quarter)
	}
	snap.Context = BuildContext(company, department)
	if caps.CanViewTeam && teamErr == nil {
		snap.Team = TeamRows(team, pending, snap.Quarter)
	}
	if caps.CanApproveGoals && snap.errs[PanelApprovals] == nil {
		snap.Approvals = ApprovalRows(pending, team)
	}
	if !caps.CanApproveGoals {
		delete(snap.errs, PanelApprovals)
	}

	for p, err := range snap.errs {
		snap.errs[p] = errors.NewPanelError(string(p), err)
		log := l.logger.Error
		if errors.GetSeverity(err) < errors.SeverityError || errors.Is(err, errors.ErrUnauthenticated) {
			log = l.logger.Warn
		}
		log("dashboard panel failed", "panel", string(p), "error", err)
	}
	return snap
}

func summarize(goals []whygo.IndividualGoal, q whygo.Quarter) progress.Summary {
	sets := make([][]whygo.Outcome, len(goals))
	for i, g := range goals {
		sets[i] = g.Outcomes
	}
	return progress.Summarize(sets, q)
}
