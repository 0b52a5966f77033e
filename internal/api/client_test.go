package api

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/session"
	"github.com/kartel/whygo/internal/testutil"
	"github.com/kartel/whygo/internal/whygo"
)

func newTestClient(t *testing.T, srv *testutil.FakeServer, onUnauthorized func(*session.Session)) *Client {
	t.Helper()
	return New(Options{BaseURL: srv.URL + "/", Timeout: 5 * time.Second, OnUnauthorized: onUnauthorized})
}

func signIn(t *testing.T, c *Client, email string) context.Context {
	t.Helper()
	resp, err := c.Login(context.Background(), email)
	if err != nil {
		t.Fatalf("Login(%q) error = %v", email, err)
	}
	sess := resp.Session()
	return session.NewContext(context.Background(), &sess)
}

func TestLogin(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)

	resp, err := c.Login(context.Background(), testutil.ManagerEmail)
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	want := &LoginResponse{
		AccessToken: testutil.ManagerToken,
		TokenType:   "bearer",
		PersonID:    "p_1",
		Name:        "Ada Lovelace",
		Level:       whygo.LevelManager,
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("Login() mismatch (-want +got):\n%s", diff)
	}

	sess := resp.Session()
	if sess.Token != testutil.ManagerToken || sess.PersonLevel != whygo.LevelManager {
		t.Errorf("Session() = %+v", sess)
	}
}

func TestLogin_UnknownEmailIsNotUnauthenticated(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	var hookCalls atomic.Int32
	c := newTestClient(t, srv, func(*session.Session) { hookCalls.Add(1) })

	_, err := c.Login(context.Background(), "nobody@kartel.example")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Email not found in system" {
		t.Errorf("Login() error = %+v", apiErr)
	}
	if errors.Is(err, errors.ErrUnauthenticated) {
		t.Error("failed login must not be treated as an expired session")
	}
	if hookCalls.Load() != 0 {
		t.Error("OnUnauthorized must not run for login")
	}
	if errors.UserMessage(err) != "Email not found in system" {
		t.Errorf("UserMessage() = %q", errors.UserMessage(err))
	}
}

func TestAuthenticatedEndpoints(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)
	ctx := signIn(t, c, testutil.ManagerEmail)

	me, err := c.Me(ctx)
	if err != nil || me.ID != "p_1" {
		t.Fatalf("Me() = %+v, %v", me, err)
	}

	team, err := c.MyTeam(ctx)
	if err != nil || len(team) != 1 || team[0].Name != "Grace Hopper" {
		t.Fatalf("MyTeam() = %+v, %v", team, err)
	}

	oc, err := c.OnboardingContext(ctx)
	if err != nil {
		t.Fatalf("OnboardingContext() error = %v", err)
	}
	if !oc.Complete() || len(oc.DepartmentGoals) != 2 || oc.Manager == nil {
		t.Errorf("OnboardingContext() = %+v", oc)
	}

	company, err := c.CompanyGoals(ctx)
	if err != nil || len(company) != 2 {
		t.Fatalf("CompanyGoals() = %v, %v", company, err)
	}

	dept, err := c.MyDepartmentGoals(ctx)
	if err != nil || len(dept) != 2 {
		t.Fatalf("MyDepartmentGoals() = %v, %v", dept, err)
	}
	if got := dept[0].Parents; len(got) != 1 || got[0].Kind != whygo.RefCompany {
		t.Errorf("department goal parents = %+v", got)
	}

	pending, err := c.PendingApprovals(ctx)
	if err != nil || len(pending) != 1 || pending[0].ID != "ig_9" {
		t.Fatalf("PendingApprovals() = %v, %v", pending, err)
	}

	if err := c.ApproveGoal(ctx, "ig_9"); err != nil {
		t.Fatalf("ApproveGoal() error = %v", err)
	}
	pending, err = c.PendingApprovals(ctx)
	if err != nil || len(pending) != 0 {
		t.Errorf("PendingApprovals() after approve = %v, %v", pending, err)
	}

	if err := c.StartOnboarding(ctx); err != nil {
		t.Errorf("StartOnboarding() error = %v", err)
	}
	if err := c.CompleteOnboarding(ctx); err != nil {
		t.Errorf("CompleteOnboarding() error = %v", err)
	}
	if got := srv.OnboardingStatus("p_1"); got != whygo.OnboardingCompleted {
		t.Errorf("server onboarding status = %q", got)
	}
}

func TestCreateGoal(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)
	ctx := signIn(t, c, testutil.ManagerEmail)

	q1 := 25.0
	req := CreateGoalRequest{
		ParentGoalIDs: []string{"dg_1_eng"},
		Why:           "Reduce toil",
		Goal:          "Automate releases",
		Outcomes: []OutcomeRequest{
			{Description: "Releases automated", MetricType: whygo.MetricPercentage, OwnerID: "p_1", TargetAnnual: 100, TargetQ1: &q1},
			{Description: "Rollbacks", MetricType: whygo.MetricNumber, OwnerID: "p_1", TargetAnnual: 0},
		},
	}
	g, err := c.CreateGoal(ctx, req)
	if err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	if g.Goal.Goal != "Automate releases" || len(g.Outcomes) != 2 {
		t.Errorf("CreateGoal() = %+v", g)
	}
	if !g.Outcomes[0].TargetQ1.Valid || g.Outcomes[0].TargetQ2.Valid {
		t.Errorf("quarterly targets = %+v", g.Outcomes[0])
	}

	goals, err := c.MyGoals(ctx)
	if err != nil || len(goals) != 1 {
		t.Errorf("MyGoals() = %v, %v", goals, err)
	}
}

func TestUnauthorized_InvokesHookAndWrapsSentinel(t *testing.T) {
	srv := testutil.NewFakeServer(t)

	var got []*session.Session
	var mu sync.Mutex
	c := newTestClient(t, srv, func(s *session.Session) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	ctx := signIn(t, c, testutil.ManagerEmail)
	srv.Revoke(testutil.ManagerToken)

	_, err := c.MyGoals(ctx)
	if !errors.Is(err, errors.ErrUnauthenticated) {
		t.Fatalf("MyGoals() error = %v, want ErrUnauthenticated", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("error should still carry the api error: %v", err)
	}
	if len(got) != 1 || got[0].Token != testutil.ManagerToken {
		t.Errorf("OnUnauthorized calls = %+v", got)
	}
}

func TestUnauthorized_ConcurrentCallsInvalidateOnce(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	mgr := session.NewManager(store, nil)

	var redirects atomic.Int32
	mgr.OnChange(func(s *session.Session) {
		if s == nil {
			redirects.Add(1)
		}
	})

	c := New(Options{BaseURL: srv.URL, OnUnauthorized: func(s *session.Session) { mgr.Invalidate(s) }})
	resp, err := c.Login(context.Background(), testutil.ManagerEmail)
	if err != nil {
		t.Fatal(err)
	}
	if err := mgr.Login(resp.Session()); err != nil {
		t.Fatal(err)
	}
	ctx := session.NewContext(context.Background(), mgr.Current())
	srv.Revoke(testutil.ManagerToken)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.PendingApprovals(ctx)
		}()
	}
	wg.Wait()

	if redirects.Load() != 1 {
		t.Errorf("sign-outs = %d, want exactly 1", redirects.Load())
	}
	if mgr.Current() != nil {
		t.Error("session should be cleared")
	}
}

func TestAuthenticatedCallWithoutSession(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)

	if _, err := c.MyGoals(context.Background()); !errors.Is(err, errors.ErrUnauthenticated) {
		t.Errorf("MyGoals() error = %v, want ErrUnauthenticated", err)
	}
	if srv.TotalCalls() != 0 {
		t.Error("no request should be sent without a session")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Maximum of 3 goals per person"}`, "Maximum of 3 goals per person"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","why"],"msg":"field required"}]}`, "field required"},
		{"no detail", http.StatusInternalServerError, `{"error":"boom"}`, DefaultErrorMessage},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, DefaultErrorMessage},
		{"empty body", http.StatusServiceUnavailable, ``, DefaultErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewFakeServer(t)
			c := newTestClient(t, srv, nil)
			ctx := signIn(t, c, testutil.ManagerEmail)
			srv.FailRaw(http.MethodGet, "/api/company/goals", tt.status, tt.body)

			_, err := c.CompanyGoals(ctx)
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("CompanyGoals() error = %v, want *Error", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Errorf("error = %d %q, want %d %q", apiErr.Status, apiErr.Message, tt.status, tt.wantMsg)
			}
			if !errors.IsUserFacing(err) {
				t.Error("api errors should be user-facing")
			}
		})
	}
}

func TestRequestIDs(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)
	ctx := signIn(t, c, testutil.ManagerEmail)
	if _, err := c.Me(ctx); err != nil {
		t.Fatal(err)
	}

	ids := srv.RequestIDs()
	if len(ids) != 2 {
		t.Fatalf("request IDs = %v", ids)
	}
	if ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("request IDs should be unique and non-empty: %v", ids)
	}
}

func TestCanceledContext(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)
	ctx := signIn(t, c, testutil.ManagerEmail)

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := c.Me(ctx); !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("Me() error = %v, want ErrCanceled", err)
	}
}

func TestExpiredDeadline(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c := newTestClient(t, srv, nil)
	ctx := signIn(t, c, testutil.ManagerEmail)

	ctx, cancel := context.WithTimeout(ctx, -time.Second)
	defer cancel()
	_, err := c.Me(ctx)
	if !errors.Is(err, errors.ErrTimeout) {
		t.Fatalf("Me() error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, errors.ErrCanceled) {
		t.Error("a deadline should not read as a cancellation")
	}
	if !errors.IsUserFacing(err) {
		t.Error("timeouts should be user-facing")
	}
}

func TestDefaultBaseURL(t *testing.T) {
	if got := New(Options{}).BaseURL(); got != DefaultBaseURL {
		t.Errorf("BaseURL() = %q", got)
	}
}
