package wizard

import (
	"context"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/draft"
	"github.com/kartel/whygo/internal/logging"
	"github.com/kartel/whygo/internal/whygo"
)

// Client is the subset of the API the wizard uses.
type Client interface {
	Submitter
	OnboardingContext(ctx context.Context) (*whygo.OnboardingContext, error)
	StartOnboarding(ctx context.Context) error
	CompleteOnboarding(ctx context.Context) error
}

var _ Client = (*api.Client)(nil)

// Flow binds a Controller to the API.
type Flow struct {
	client Client
	ctrl   *Controller
	logger *logging.Logger
}

// NewFlow creates a flow with a fresh controller on the profile step.
func NewFlow(client Client, logger *logging.Logger) *Flow {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Flow{client: client, ctrl: NewController(), logger: logger}
}

// Controller returns the underlying state machine.
func (f *Flow) Controller() *Controller {
	return f.ctrl
}

// Load fetches the onboarding context and installs it. When the person has
// not started onboarding it also sends the "started" marker; that call is
// best-effort and only logged on failure.
func (f *Flow) Load(ctx context.Context) (*whygo.OnboardingContext, error) {
	oc, err := f.client.OnboardingContext(ctx)
	if err != nil {
		return nil, err
	}
	f.ctrl.SetContext(oc)

	if oc.Person.OnboardingStatus == whygo.OnboardingNotStarted {
		if err := f.client.StartOnboarding(ctx); err != nil {
			f.logger.WithPerson(oc.Person.ID).Warn("failed to mark onboarding started", "error", err)
		} else {
			oc.Person.OnboardingStatus = whygo.OnboardingInProgress
		}
	}
	return oc, nil
}

// Apply runs the effect a transition requested.
func (f *Flow) Apply(ctx context.Context, t Transition) {
	if t.Redirected {
		f.logger.WithStep(t.To.String()).Debug("step guarded", "error", t.Reason)
	}
	switch t.Effect {
	case EffectMarkComplete:
		f.Complete(ctx)
	case EffectNone:
	}
}

// Complete sends the best-effort "onboarding complete" marker. Failures are
// logged and never surfaced.
func (f *Flow) Complete(ctx context.Context) {
	log := f.logger.WithStep(StepComplete.String())
	if oc := f.ctrl.Context(); oc != nil {
		log = log.WithPerson(oc.Person.ID)
	}
	if err := f.client.CompleteOnboarding(ctx); err != nil {
		log.Warn("failed to mark onboarding complete", "error", err)
		return
	}
	log.Info("onboarding complete")
}

// Submit validates and submits d, then runs the completion effect on
// success.
func (f *Flow) Submit(ctx context.Context, d *draft.Draft) (Transition, *whygo.IndividualGoal, error) {
	t, goal, err := f.ctrl.Submit(ctx, d, f.client)
	if err != nil {
		f.logger.WithStep(StepGoals.String()).Debug("goal submission rejected", "error", err)
		return t, nil, err
	}
	f.logger.WithStep(StepGoals.String()).Info("goal submitted", "goal_id", goal.ID)
	f.Apply(ctx, t)
	return t, goal, nil
}
