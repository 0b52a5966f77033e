// Package testutil provides a fake WhyGO backend for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kartel/whygo/internal/whygo"
)

// Fixture emails and tokens.
const (
	ManagerEmail = "ada@kartel.example"
	ManagerToken = "tok-manager"
	ICEmail      = "grace@kartel.example"
	ICToken      = "tok-ic"
)

// FakeServer is an in-memory WhyGO API served over httptest.
type FakeServer struct {
	*httptest.Server

	mu              sync.Mutex
	accounts        map[string]account // by email
	tokens          map[string]string  // token -> person ID
	contexts        map[string]*whygo.OnboardingContext
	goals           map[string][]whygo.IndividualGoal
	pending         map[string][]whygo.IndividualGoal
	teams           map[string][]whygo.Person
	companyGoals    []whygo.CompanyGoal
	departmentGoals []whygo.DepartmentGoal
	failures        map[string]failure
	calls           map[string]int
	requestIDs      []string
	nextGoal        int
}

type account struct {
	person whygo.Person
	token  string
}

type failure struct {
	status int
	body   string
	once   bool
}

// CreatedOutcome mirrors the outcome shape accepted by the create endpoint.
type CreatedOutcome struct {
	Description  string           `json:"description"`
	MetricType   whygo.MetricType `json:"metric_type"`
	OwnerID      string           `json:"owner_id"`
	TargetAnnual float64          `json:"target_annual"`
	TargetQ1     *float64         `json:"target_q1"`
	TargetQ2     *float64         `json:"target_q2"`
	TargetQ3     *float64         `json:"target_q3"`
	TargetQ4     *float64         `json:"target_q4"`
}

// CreatedGoal mirrors the body accepted by the create endpoint.
type CreatedGoal struct {
	ParentGoalIDs []string         `json:"parent_goal_ids"`
	Why           string           `json:"why"`
	Goal          string           `json:"goal"`
	Outcomes      []CreatedOutcome `json:"outcomes"`
}

// NewFakeServer starts a server seeded with the standard fixture: a manager
// with one direct report whose goal awaits approval, and an IC.
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()

	f := &FakeServer{
		accounts: make(map[string]account),
		tokens:   make(map[string]string),
		contexts: make(map[string]*whygo.OnboardingContext),
		goals:    make(map[string][]whygo.IndividualGoal),
		pending:  make(map[string][]whygo.IndividualGoal),
		teams:    make(map[string][]whygo.Person),
		failures: make(map[string]failure),
		calls:    make(map[string]int),
	}
	f.seed()
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

// Manager returns the fixture manager.
func Manager() whygo.Person {
	mgr := "p_0"
	return whygo.Person{
		ID:               "p_1",
		Name:             "Ada Lovelace",
		Title:            "Engineering Manager",
		DepartmentID:     "d_1",
		ManagerID:        &mgr,
		Level:            whygo.LevelManager,
		EmploymentType:   whygo.EmploymentW2,
		Status:           "active",
		OnboardingStatus: whygo.OnboardingNotStarted,
	}
}

// Report returns the manager's direct report, who is also the IC fixture.
func Report() whygo.Person {
	mgr := "p_1"
	return whygo.Person{
		ID:               "p_2",
		Name:             "Grace Hopper",
		Title:            "Engineer",
		DepartmentID:     "d_1",
		ManagerID:        &mgr,
		Level:            whygo.LevelIC,
		EmploymentType:   whygo.EmploymentW2,
		Status:           "active",
		OnboardingStatus: whygo.OnboardingInProgress,
	}
}

// CompanyGoals returns the fixture company goals.
func CompanyGoals() []whygo.CompanyGoal {
	return []whygo.CompanyGoal{
		{Goal: whygo.Goal{ID: "cg_1", Goal: "Grow revenue 40%", Why: "Fund the roadmap", Status: "approved", FiscalYear: 2026}, OwnerID: "p_0"},
		{Goal: whygo.Goal{ID: "cg_2", Goal: "Ship the platform rewrite", Why: "Faster delivery", Status: "approved", FiscalYear: 2026}, OwnerID: "p_0"},
	}
}

// DepartmentGoals returns the fixture department goals.
func DepartmentGoals() []whygo.DepartmentGoal {
	return []whygo.DepartmentGoal{
		{
			Goal:         whygo.Goal{ID: "dg_1_eng", Goal: "Cut deploy time to under ten minutes for every service", Why: "Ship faster", Status: "approved", FiscalYear: 2026},
			DepartmentID: "d_1",
			Parents:      whygo.ParentRefs{whygo.CompanyRef("cg_2")},
		},
		{
			Goal:         whygo.Goal{ID: "dg_2_eng", Goal: "Halve customer-facing incidents", Why: "Retention", Status: "approved", FiscalYear: 2026},
			DepartmentID: "d_1",
			Parents:      whygo.ParentRefs{whygo.CompanyRef("cg_1")},
		},
	}
}

// PendingGoal returns the report's goal awaiting the manager's approval.
func PendingGoal() whygo.IndividualGoal {
	return whygo.IndividualGoal{
		Goal: whygo.Goal{
			ID: "ig_9", Goal: "Automate the release checklist", Why: "Fewer manual steps",
			Status: whygo.GoalStatusPendingApproval, FiscalYear: 2026,
			Outcomes: []whygo.Outcome{
				{ID: "o_91", Description: "Manual steps removed", MetricType: whygo.MetricNumber, OwnerID: "p_2", TargetQ1: whygo.Num(5), ActualQ1: whygo.Num(5)},
				{ID: "o_92", Description: "Release time", MetricType: whygo.MetricPercentage, OwnerID: "p_2", TargetQ1: whygo.Num(100), ActualQ1: whygo.Num(60)},
			},
		},
		PersonID: "p_2",
		Parents:  whygo.ParentRefs{whygo.DepartmentRef("dg_1_eng")},
	}
}

func (f *FakeServer) seed() {
	dept := whygo.Department{ID: "d_1", Name: "Engineering", HeadID: "p_1"}
	mgr, rep := Manager(), Report()
	boss := whygo.Person{ID: "p_0", Name: "Carol Shaw", Title: "CEO", Level: whygo.LevelExecutive}

	f.accounts[ManagerEmail] = account{person: mgr, token: ManagerToken}
	f.accounts[ICEmail] = account{person: rep, token: ICToken}
	f.companyGoals = CompanyGoals()
	f.departmentGoals = DepartmentGoals()

	f.contexts[mgr.ID] = &whygo.OnboardingContext{
		Person: mgr, Department: dept, Manager: &boss,
		CompanyGoals: f.companyGoals, DepartmentGoals: f.departmentGoals,
		PendingApprovals: []whygo.IndividualGoal{PendingGoal()},
	}
	f.contexts[rep.ID] = &whygo.OnboardingContext{
		Person: rep, Department: dept, Manager: &mgr,
		CompanyGoals: f.companyGoals, DepartmentGoals: f.departmentGoals,
		IndividualGoals: []whygo.IndividualGoal{PendingGoal()},
	}
	f.goals[rep.ID] = []whygo.IndividualGoal{PendingGoal()}
	f.pending[mgr.ID] = []whygo.IndividualGoal{PendingGoal()}
	f.teams[mgr.ID] = []whygo.Person{rep}
}

// Fail makes every request to method and path answer with status and a
// detail message until cleared with Clear.
func (f *FakeServer) Fail(method, path string, status int, detail string) {
	f.setFailure(method, path, status, detail, false)
}

// FailOnce makes only the next request to method and path fail.
func (f *FakeServer) FailOnce(method, path string, status int, detail string) {
	f.setFailure(method, path, status, detail, true)
}

// FailRaw makes requests to method and path answer with status and the
// literal body.
func (f *FakeServer) FailRaw(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, body: body}
}

func (f *FakeServer) setFailure(method, path string, status int, detail string, once bool) {
	body, _ := json.Marshal(map[string]string{"detail": detail})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, body: string(body), once: once}
}

// Clear removes the configured failure for method and path.
func (f *FakeServer) Clear(method, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, method+" "+path)
}

// Revoke invalidates a token so later calls with it get a 401.
func (f *FakeServer) Revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// Calls returns how many requests reached method and path.
func (f *FakeServer) Calls(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

// TotalCalls returns the number of requests served.
func (f *FakeServer) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// RequestIDs returns the X-Request-ID header of every request, in order.
func (f *FakeServer) RequestIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requestIDs...)
}

// Goals returns the person's current goals.
func (f *FakeServer) Goals(personID string) []whygo.IndividualGoal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]whygo.IndividualGoal(nil), f.goals[personID]...)
}

// SetContext replaces the onboarding context served to a person.
func (f *FakeServer) SetContext(personID string, ctx *whygo.OnboardingContext) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contexts[personID] = ctx
}

// OnboardingStatus returns the person's onboarding status as the server
// sees it.
func (f *FakeServer) OnboardingStatus(personID string) whygo.OnboardingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.contexts[personID]; ok {
		return c.Person.OnboardingStatus
	}
	return ""
}

func (f *FakeServer) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.calls[key]++
	f.requestIDs = append(f.requestIDs, r.Header.Get("X-Request-ID"))
	fail, failing := f.failures[key]
	if failing && fail.once {
		delete(f.failures, key)
	}
	f.mu.Unlock()

	if failing {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(fail.status)
		_, _ = w.Write([]byte(fail.body))
		return
	}

	if key == "POST /api/auth/login" {
		f.login(w, r)
		return
	}

	personID, ok := f.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case key == "GET /api/users/me":
		writeJSON(w, f.contexts[personID].Person)
	case key == "GET /api/users/me/team":
		writeJSON(w, nonNil(f.teams[personID]))
	case key == "GET /api/onboarding/context":
		writeJSON(w, f.contexts[personID])
	case key == "POST /api/onboarding/start":
		f.contexts[personID].Person.OnboardingStatus = whygo.OnboardingInProgress
		writeJSON(w, map[string]string{"status": "in_progress"})
	case key == "POST /api/onboarding/complete":
		f.contexts[personID].Person.OnboardingStatus = whygo.OnboardingCompleted
		writeJSON(w, map[string]string{"status": "completed"})
	case key == "GET /api/individuals/me":
		writeJSON(w, nonNil(f.goals[personID]))
	case key == "POST /api/individuals/create":
		f.createGoal(w, r, personID)
	case key == "GET /api/individuals/pending-approval":
		writeJSON(w, nonNil(f.pending[personID]))
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/individuals/") && strings.HasSuffix(r.URL.Path, "/approve"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/individuals/"), "/approve")
		f.approve(w, personID, id)
	case key == "GET /api/company/goals":
		writeJSON(w, f.companyGoals)
	case key == "GET /api/departments/me/goals":
		writeJSON(w, f.departmentGoals)
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
	}
}

func (f *FakeServer) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"field required","type":"value_error.missing"}]}`))
		return
	}

	f.mu.Lock()
	acct, ok := f.accounts[strings.ToLower(body.Email)]
	if ok {
		f.tokens[acct.token] = acct.person.ID
	}
	f.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Email not found in system")
		return
	}
	writeJSON(w, map[string]string{
		"access_token": acct.token,
		"token_type":   "bearer",
		"person_id":    acct.person.ID,
		"name":         acct.person.Name,
		"level":        string(acct.person.Level),
	})
}

func (f *FakeServer) authenticate(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return "", false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	return id, ok
}

// createGoal is called with f.mu held.
func (f *FakeServer) createGoal(w http.ResponseWriter, r *http.Request, personID string) {
	var req CreatedGoal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request")
		return
	}
	if len(f.goals[personID]) >= whygo.MaxGoalsPerPerson {
		writeDetail(w, http.StatusBadRequest, "Maximum of 3 goals per person")
		return
	}

	f.nextGoal++
	g := whygo.IndividualGoal{
		Goal: whygo.Goal{
			ID:         fmt.Sprintf("ig_new_%d", f.nextGoal),
			Why:        req.Why,
			Goal:       req.Goal,
			Status:     whygo.GoalStatusPendingApproval,
			FiscalYear: 2026,
		},
		PersonID: personID,
	}
	for _, id := range req.ParentGoalIDs {
		g.Parents = append(g.Parents, whygo.ParseParentRef(id))
	}
	for i, o := range req.Outcomes {
		g.Outcomes = append(g.Outcomes, whygo.Outcome{
			ID:           fmt.Sprintf("%s_o%d", g.ID, i+1),
			GoalID:       g.ID,
			Description:  o.Description,
			MetricType:   o.MetricType,
			OwnerID:      o.OwnerID,
			TargetAnnual: whygo.Num(o.TargetAnnual),
			TargetQ1:     fromPtr(o.TargetQ1),
			TargetQ2:     fromPtr(o.TargetQ2),
			TargetQ3:     fromPtr(o.TargetQ3),
			TargetQ4:     fromPtr(o.TargetQ4),
		})
	}
	f.goals[personID] = append(f.goals[personID], g)
	if c, ok := f.contexts[personID]; ok {
		c.IndividualGoals = append(c.IndividualGoals, g)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(g)
}

// approve is called with f.mu held.
func (f *FakeServer) approve(w http.ResponseWriter, approverID, goalID string) {
	pending := f.pending[approverID]
	for i, g := range pending {
		if g.ID != goalID {
			continue
		}
		f.pending[approverID] = append(pending[:i:i], pending[i+1:]...)
		for j := range f.goals[g.PersonID] {
			if f.goals[g.PersonID][j].ID == goalID {
				f.goals[g.PersonID][j].Status = whygo.GoalStatusApproved
				f.goals[g.PersonID][j].ApprovedBy = &approverID
			}
		}
		writeJSON(w, map[string]string{"status": "approved"})
		return
	}
	writeDetail(w, http.StatusNotFound, "Goal not found")
}

func fromPtr(v *float64) whygo.Number {
	if v == nil {
		return whygo.Number{}
	}
	return whygo.Num(*v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
