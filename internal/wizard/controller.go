package wizard

import (
	"context"
	"fmt"
	"sync"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/draft"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/whygo"
)

// Effect is a side effect the caller must run after a transition.
type Effect int

const (
	EffectNone Effect = iota
	// EffectMarkComplete asks for the best-effort "onboarding complete" call.
	EffectMarkComplete
)

// Transition describes the result of a navigation request.
type Transition struct {
	From Step
	To   Step
	// Redirected is set when the guard sent a request for a later step back
	// to the profile step because the context was not loaded.
	Redirected bool
	// Reason is errors.ErrContextMissing for a redirected transition.
	Reason error
	Effect Effect
}

// Submitter creates a goal on the server.
type Submitter interface {
	CreateGoal(ctx context.Context, req api.CreateGoalRequest) (*whygo.IndividualGoal, error)
}

// Controller is the wizard state machine. It is safe for concurrent use so a
// submission can run off the UI goroutine.
type Controller struct {
	mu         sync.Mutex
	current    Step
	history    []Step
	context    *whygo.OnboardingContext
	submitting bool
}

// NewController returns a controller on the profile step.
func NewController() *Controller {
	return &Controller{current: StepProfile}
}

// Current returns the active step.
func (c *Controller) Current() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Context returns the loaded onboarding context, or nil.
func (c *Controller) Context() *whygo.OnboardingContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.context
}

// SetContext replaces the onboarding context wholesale. A nil or incomplete
// context leaves the guard closed.
func (c *Controller) SetContext(oc *whygo.OnboardingContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.context = oc
}

// Submitting reports whether a goal submission is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Continue advances one step on explicit user action. The goals step can
// only be left by a successful Submit and the complete step is terminal.
func (c *Controller) Continue() (Transition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.current {
	case StepGoals:
		return Transition{From: c.current, To: c.current}, fmt.Errorf("%w: submit a goal to finish onboarding", errors.ErrStepLocked)
	case StepComplete:
		return Transition{From: c.current, To: c.current}, fmt.Errorf("%w: onboarding is already complete", errors.ErrStepLocked)
	}
	return c.enter(c.current+1, true), nil
}

// Back returns to the previously visited step. It reports false when there
// is no history or the wizard has completed.
func (c *Controller) Back() (Transition, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == StepComplete || len(c.history) == 0 {
		return Transition{From: c.current, To: c.current}, false
	}
	prev := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	return c.enter(prev, false), true
}

// Navigate handles a direct navigation such as a deep link. The target goes
// through the same guard as Continue, so a later step requested before the
// context loads resolves to the profile step.
func (c *Controller) Navigate(path string) (Transition, error) {
	target, ok := StepForPath(path)
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s", errors.ErrStepNotFound, path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if target == c.current {
		return Transition{From: c.current, To: c.current}, nil
	}
	return c.enter(target, true), nil
}

// enter moves to target through the entry guard. Callers hold c.mu.
func (c *Controller) enter(target Step, record bool) Transition {
	t := Transition{From: c.current, To: target}
	if target.NeedsContext() && !c.context.Complete() {
		t.To = StepProfile
		t.Redirected = true
		t.Reason = errors.ErrContextMissing
	}
	if record && t.To != c.current {
		c.history = append(c.history, c.current)
	}
	if t.To == StepComplete && c.current != StepComplete {
		t.Effect = EffectMarkComplete
		c.history = nil
	}
	c.current = t.To
	return t
}

// Submit validates d and sends it through s. Validation failures return
// errors.ValidationErrors without contacting the server. On success the
// wizard moves to the complete step; on failure it stays on the goals step
// and returns the server's error. A second Submit while one is in flight
// returns errors.ErrSubmitInFlight.
func (c *Controller) Submit(ctx context.Context, d *draft.Draft, s Submitter) (Transition, *whygo.IndividualGoal, error) {
	c.mu.Lock()
	stay := Transition{From: c.current, To: c.current}
	if c.current != StepGoals {
		c.mu.Unlock()
		return stay, nil, fmt.Errorf("%w: goals can only be submitted from the goals step", errors.ErrStepLocked)
	}
	if c.submitting {
		c.mu.Unlock()
		return stay, nil, errors.ErrSubmitInFlight
	}
	req, err := d.ToRequest()
	if err != nil {
		c.mu.Unlock()
		return stay, nil, err
	}
	c.submitting = true
	c.mu.Unlock()

	goal, err := s.CreateGoal(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return stay, nil, err
	}
	return c.enter(StepComplete, true), goal, nil
}
