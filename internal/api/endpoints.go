package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/whygo"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	PersonID    string      `json:"person_id"`
	Name        string      `json:"name"`
	Level       whygo.Level `json:"level"`
}

// OutcomeRequest is one outcome of a goal being created.
type OutcomeRequest struct {
	Description  string           `json:"description"`
	MetricType   whygo.MetricType `json:"metric_type"`
	OwnerID      string           `json:"owner_id"`
	TargetAnnual float64          `json:"target_annual"`
	TargetQ1     *float64         `json:"target_q1,omitempty"`
	TargetQ2     *float64         `json:"target_q2,omitempty"`
	TargetQ3     *float64         `json:"target_q3,omitempty"`
	TargetQ4     *float64         `json:"target_q4,omitempty"`
}

// CreateGoalRequest is the body of POST /api/individuals/create.
type CreateGoalRequest struct {
	ParentGoalIDs []string         `json:"parent_goal_ids"`
	Why           string           `json:"why"`
	Goal          string           `json:"goal"`
	Outcomes      []OutcomeRequest `json:"outcomes"`
}

// Login exchanges an email for an access token. It is the only
// unauthenticated call; a 401 here means the email is unknown.
func (c *Client) Login(ctx context.Context, email string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email}, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the signed-in person.
func (c *Client) Me(ctx context.Context) (*whygo.Person, error) {
	var p whygo.Person
	if err := c.get(ctx, "/api/users/me", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MyTeam returns the signed-in person's direct reports.
func (c *Client) MyTeam(ctx context.Context) ([]whygo.Person, error) {
	var team []whygo.Person
	if err := c.get(ctx, "/api/users/me/team", &team); err != nil {
		return nil, err
	}
	return team, nil
}

// OnboardingContext returns the wizard's aggregate snapshot.
func (c *Client) OnboardingContext(ctx context.Context) (*whygo.OnboardingContext, error) {
	var oc whygo.OnboardingContext
	if err := c.get(ctx, "/api/onboarding/context", &oc); err != nil {
		return nil, err
	}
	return &oc, nil
}

// StartOnboarding marks onboarding as started.
func (c *Client) StartOnboarding(ctx context.Context) error {
	return c.post(ctx, "/api/onboarding/start", nil, nil)
}

// CompleteOnboarding marks onboarding as completed.
func (c *Client) CompleteOnboarding(ctx context.Context) error {
	return c.post(ctx, "/api/onboarding/complete", nil, nil)
}

// MyGoals returns the signed-in person's individual goals.
func (c *Client) MyGoals(ctx context.Context) ([]whygo.IndividualGoal, error) {
	var goals []whygo.IndividualGoal
	if err := c.get(ctx, "/api/individuals/me", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal creates an individual goal.
func (c *Client) CreateGoal(ctx context.Context, req CreateGoalRequest) (*whygo.IndividualGoal, error) {
	var g whygo.IndividualGoal
	if err := c.post(ctx, "/api/individuals/create", req, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ApproveGoal approves a direct report's goal.
func (c *Client) ApproveGoal(ctx context.Context, goalID string) error {
	return c.post(ctx, "/api/individuals/"+url.PathEscape(goalID)+"/approve", nil, nil)
}

// PendingApprovals returns goals awaiting the signed-in person's approval.
func (c *Client) PendingApprovals(ctx context.Context) ([]whygo.IndividualGoal, error) {
	var goals []whygo.IndividualGoal
	if err := c.get(ctx, "/api/individuals/pending-approval", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CompanyGoals returns every company goal.
func (c *Client) CompanyGoals(ctx context.Context) ([]whygo.CompanyGoal, error) {
	var goals []whygo.CompanyGoal
	if err := c.get(ctx, "/api/company/goals", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// MyDepartmentGoals returns the goals of the signed-in person's department.
func (c *Client) MyDepartmentGoals(ctx context.Context) ([]whygo.DepartmentGoal, error) {
	var goals []whygo.DepartmentGoal
	if err := c.get(ctx, "/api/departments/me/goals", &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// Session converts a login response into the session to persist.
func (r *LoginResponse) Session() session.Session {
	return session.Session{
		Token:       r.AccessToken,
		PersonID:    r.PersonID,
		PersonName:  r.Name,
		PersonLevel: r.Level,
	}
}
