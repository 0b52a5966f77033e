package whygo

import "strings"

// Level is a person's organizational level.
type Level string

const (
	LevelExecutive      Level = "executive"
	LevelDepartmentHead Level = "department_head"
	LevelManager        Level = "manager"
	LevelIC             Level = "ic"
)

// Label returns the level formatted for display ("department head").
func (l Level) Label() string {
	return strings.ReplaceAll(string(l), "_", " ")
}

// EmploymentType describes how a person is employed.
type EmploymentType string

const (
	EmploymentW2            EmploymentType = "w2"
	EmploymentContractor    EmploymentType = "contractor"
	EmploymentInternational EmploymentType = "international"
	EmploymentTrial         EmploymentType = "trial"
)

// OnboardingStatus tracks where a person is in the onboarding wizard.
type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "not_started"
	OnboardingInProgress OnboardingStatus = "in_progress"
	OnboardingCompleted  OnboardingStatus = "completed"
)

// Person is an employee known to WhyGO.
type Person struct {
	ID                  string           `json:"id" yaml:"id"`
	Name                string           `json:"name" yaml:"name"`
	Title               string           `json:"title" yaml:"title"`
	Email               *string          `json:"email" yaml:"email,omitempty"`
	DepartmentID        string           `json:"department_id" yaml:"department_id"`
	ManagerID           *string          `json:"manager_id" yaml:"manager_id,omitempty"`
	Level               Level            `json:"level" yaml:"level"`
	EmploymentType      EmploymentType   `json:"employment_type" yaml:"employment_type"`
	Status              string           `json:"status" yaml:"status"`
	OnboardingStatus    OnboardingStatus `json:"onboarding_status" yaml:"onboarding_status"`
	LastLogin           *string          `json:"last_login" yaml:"last_login,omitempty"`
	Timezone            string           `json:"timezone" yaml:"timezone"`
	NotificationEnabled bool             `json:"notification_enabled" yaml:"notification_enabled"`
}

// Initials returns the first letter of each word in the person's name.
func (p Person) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(p.Name) {
		r := []rune(part)
		b.WriteRune(r[0])
	}
	return strings.ToUpper(b.String())
}

// Department is an organizational unit with its own goals.
type Department struct {
	ID                      string   `json:"id" yaml:"id"`
	Name                    string   `json:"name" yaml:"name"`
	HeadID                  string   `json:"head_id" yaml:"head_id"`
	PrimaryCompanyGoalIDs   []string `json:"primary_company_goal_ids" yaml:"primary_company_goal_ids"`
	SecondaryCompanyGoalIDs []string `json:"secondary_company_goal_ids" yaml:"secondary_company_goal_ids"`
	ReportsTo               *string  `json:"reports_to" yaml:"reports_to,omitempty"`
}

// MetricType is how an outcome is measured.
type MetricType string

const (
	MetricNumber     MetricType = "number"
	MetricPercentage MetricType = "percentage"
	MetricCurrency   MetricType = "currency"
	MetricBoolean    MetricType = "boolean"
	MetricMilestone  MetricType = "milestone"
)

// MetricTypes lists every metric type in display order.
func MetricTypes() []MetricType {
	return []MetricType{MetricNumber, MetricPercentage, MetricCurrency, MetricBoolean, MetricMilestone}
}

// Valid reports whether m is a known metric type.
func (m MetricType) Valid() bool {
	switch m {
	case MetricNumber, MetricPercentage, MetricCurrency, MetricBoolean, MetricMilestone:
		return true
	}
	return false
}

// Label returns the human label for the metric type.
func (m MetricType) Label() string {
	switch m {
	case MetricNumber:
		return "Number"
	case MetricPercentage:
		return "Percentage"
	case MetricCurrency:
		return "Currency"
	case MetricBoolean:
		return "Yes/No"
	case MetricMilestone:
		return "Milestone"
	}
	return string(m)
}

// Outcome is a measurable target attached to a goal.
type Outcome struct {
	ID           string     `json:"id" yaml:"id"`
	GoalID       string     `json:"goal_id" yaml:"goal_id"`
	Description  string     `json:"description" yaml:"description"`
	MetricType   MetricType `json:"metric_type" yaml:"metric_type"`
	OwnerID      string     `json:"owner_id" yaml:"owner_id"`
	TargetAnnual Number     `json:"target_annual" yaml:"-"`
	TargetQ1     Number     `json:"target_q1" yaml:"-"`
	TargetQ2     Number     `json:"target_q2" yaml:"-"`
	TargetQ3     Number     `json:"target_q3" yaml:"-"`
	TargetQ4     Number     `json:"target_q4" yaml:"-"`
	ActualQ1     Number     `json:"actual_q1" yaml:"-"`
	ActualQ2     Number     `json:"actual_q2" yaml:"-"`
	ActualQ3     Number     `json:"actual_q3" yaml:"-"`
	ActualQ4     Number     `json:"actual_q4" yaml:"-"`
	StatusQ1     *string    `json:"status_q1" yaml:"-"`
	StatusQ2     *string    `json:"status_q2" yaml:"-"`
	StatusQ3     *string    `json:"status_q3" yaml:"-"`
	StatusQ4     *string    `json:"status_q4" yaml:"-"`
}

// Target returns the outcome's target for quarter q.
func (o Outcome) Target(q Quarter) Number {
	switch q {
	case Q1:
		return o.TargetQ1
	case Q2:
		return o.TargetQ2
	case Q3:
		return o.TargetQ3
	case Q4:
		return o.TargetQ4
	}
	return Number{}
}

// Actual returns the outcome's recorded actual for quarter q.
func (o Outcome) Actual(q Quarter) Number {
	switch q {
	case Q1:
		return o.ActualQ1
	case Q2:
		return o.ActualQ2
	case Q3:
		return o.ActualQ3
	case Q4:
		return o.ActualQ4
	}
	return Number{}
}

// Goal holds the fields shared by goals at every level of the cascade.
type Goal struct {
	ID         string    `json:"id" yaml:"id"`
	Why        string    `json:"why" yaml:"why"`
	Goal       string    `json:"goal" yaml:"goal"`
	Status     string    `json:"status" yaml:"status"`
	FiscalYear int       `json:"fiscal_year" yaml:"fiscal_year"`
	Outcomes   []Outcome `json:"outcomes" yaml:"outcomes"`
	CreatedAt  *string   `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt  *string   `json:"updated_at" yaml:"updated_at,omitempty"`
}

// Goal status values the API is known to emit. The field is free-form and
// only "approved" carries meaning for the client.
const (
	GoalStatusDraft           = "draft"
	GoalStatusPendingApproval = "pending_approval"
	GoalStatusApproved        = "approved"
)

// IsApproved reports whether the goal has been approved.
func (g Goal) IsApproved() bool {
	return g.Status == GoalStatusApproved
}

// StatusLabel returns the goal status formatted for display.
func (g Goal) StatusLabel() string {
	if g.Status == "" {
		return "unknown"
	}
	return strings.ReplaceAll(g.Status, "_", " ")
}

// CompanyGoal is a top-level strategic goal.
type CompanyGoal struct {
	Goal    `yaml:",inline"`
	OwnerID string `json:"owner_id" yaml:"owner_id"`
}

// DepartmentGoal is a department goal laddering up to company goals.
type DepartmentGoal struct {
	Goal         `yaml:",inline"`
	DepartmentID string     `json:"department_id" yaml:"department_id"`
	Parents      ParentRefs `json:"parent_goal_ids" yaml:"-"`
	ApprovedBy   *string    `json:"approved_by" yaml:"approved_by,omitempty"`
}

// IndividualGoal is a person's goal laddering up to department goals.
type IndividualGoal struct {
	Goal       `yaml:",inline"`
	PersonID   string     `json:"person_id" yaml:"person_id"`
	Parents    ParentRefs `json:"parent_goal_ids" yaml:"-"`
	ApprovedBy *string    `json:"approved_by" yaml:"approved_by,omitempty"`
}

// OnboardingContext is the aggregate snapshot loaded at the start of the
// onboarding wizard. It is replaced wholesale, never patched.
type OnboardingContext struct {
	Person           Person           `json:"person"`
	Department       Department       `json:"department"`
	Manager          *Person          `json:"manager"`
	CompanyGoals     []CompanyGoal    `json:"company_goals"`
	DepartmentGoals  []DepartmentGoal `json:"department_goals"`
	IndividualGoals  []IndividualGoal `json:"individual_goals"`
	PendingApprovals []IndividualGoal `json:"pending_approvals"`
}

// Complete reports whether the snapshot carries the person and department
// the wizard needs to render.
func (c *OnboardingContext) Complete() bool {
	return c != nil && c.Person.ID != "" && c.Department.ID != ""
}

// CompanyGoalNumbers maps company goal IDs to their 1-based display number.
func CompanyGoalNumbers(goals []CompanyGoal) map[string]int {
	m := make(map[string]int, len(goals))
	for i, g := range goals {
		m[g.ID] = i + 1
	}
	return m
}
