// Package wizard drives the five-step onboarding wizard: profile, company
// goals, department goals, the goal form, and completion.
//
// The Controller is a pure state machine over Step values. It owns the
// navigation history and the entry guard that keeps steps two through five
// unreachable until the onboarding context has loaded. Flow binds a
// Controller to the API for loading the context and the best-effort
// start/complete calls.
package wizard

import "fmt"

// Step is a wizard step. Values start at 1 to match the step indicator.
type Step int

const (
	StepProfile Step = iota + 1
	StepCompany
	StepDepartment
	StepGoals
	StepComplete
)

// Steps lists every step in order.
func Steps() []Step {
	return []Step{StepProfile, StepCompany, StepDepartment, StepGoals, StepComplete}
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepProfile && s <= StepComplete
}

// Path returns the step's route.
func (s Step) Path() string {
	switch s {
	case StepProfile:
		return "/onboarding/profile"
	case StepCompany:
		return "/onboarding/company"
	case StepDepartment:
		return "/onboarding/department"
	case StepGoals:
		return "/onboarding/goals"
	case StepComplete:
		return "/onboarding/complete"
	}
	return ""
}

// Title returns the heading shown for the step.
func (s Step) Title() string {
	switch s {
	case StepProfile:
		return "Your Profile"
	case StepCompany:
		return "Company Goals"
	case StepDepartment:
		return "Department Goals"
	case StepGoals:
		return "Your Goals"
	case StepComplete:
		return "All Set"
	}
	return ""
}

// String returns the short name used in logs, e.g. "profile".
func (s Step) String() string {
	switch s {
	case StepProfile:
		return "profile"
	case StepCompany:
		return "company"
	case StepDepartment:
		return "department"
	case StepGoals:
		return "goals"
	case StepComplete:
		return "complete"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// NeedsContext reports whether entering s requires the onboarding context.
func (s Step) NeedsContext() bool {
	return s > StepProfile
}

// StepForPath resolves a route or short step name to a step.
func StepForPath(path string) (Step, bool) {
	for _, s := range Steps() {
		if path == s.Path() || path == s.String() {
			return s, true
		}
	}
	return 0, false
}
