// Package draft models an individual goal being composed in the wizard's
// goals step or loaded from a YAML file, and validates it before anything is
// sent to the server.
package draft

import (
	"fmt"

	"github.com/kartel/whygo/internal/api"
	"github.com/kartel/whygo/internal/util"
	"github.com/kartel/whygo/internal/whygo"
)

// Limits on a goal draft.
const (
	MaxWhy      = 500
	MaxGoal     = 300
	MinOutcomes = 2
	MaxOutcomes = 3
)

// Outcome is one measurable outcome of a draft goal.
type Outcome struct {
	Description  string           `yaml:"description" validate:"notblank"`
	MetricType   whygo.MetricType `yaml:"metric_type" validate:"metric"`
	OwnerID      string           `yaml:"owner_id" validate:"required"`
	TargetAnnual float64          `yaml:"target_annual" validate:"finite,gte=0"`
	TargetQ1     *float64         `yaml:"target_q1,omitempty" validate:"omitempty,finite,gte=0"`
	TargetQ2     *float64         `yaml:"target_q2,omitempty" validate:"omitempty,finite,gte=0"`
	TargetQ3     *float64         `yaml:"target_q3,omitempty" validate:"omitempty,finite,gte=0"`
	TargetQ4     *float64         `yaml:"target_q4,omitempty" validate:"omitempty,finite,gte=0"`
}

// NewOutcome returns a blank outcome owned by ownerID, measured as a number.
func NewOutcome(ownerID string) Outcome {
	return Outcome{MetricType: whygo.MetricNumber, OwnerID: ownerID}
}

// Quarter returns a pointer to the quarterly target field for q.
func (o *Outcome) Quarter(q whygo.Quarter) **float64 {
	switch q {
	case whygo.Q1:
		return &o.TargetQ1
	case whygo.Q2:
		return &o.TargetQ2
	case whygo.Q3:
		return &o.TargetQ3
	case whygo.Q4:
		return &o.TargetQ4
	}
	return nil
}

// Draft is an individual goal being composed.
type Draft struct {
	Parent   whygo.ParentRef `yaml:"parent" validate:"deptref"`
	Why      string          `yaml:"why" validate:"notblank,max=500"`
	Goal     string          `yaml:"goal" validate:"notblank,max=300"`
	Outcomes []Outcome       `yaml:"outcomes" validate:"min=2,max=3,dive"`
}

// New returns an empty draft with the minimum two outcomes, each owned by
// ownerID.
func New(ownerID string) *Draft {
	d := &Draft{}
	for range MinOutcomes {
		d.Outcomes = append(d.Outcomes, NewOutcome(ownerID))
	}
	return d
}

// CanAddOutcome reports whether another outcome may be added.
func (d *Draft) CanAddOutcome() bool {
	return len(d.Outcomes) < MaxOutcomes
}

// CanRemoveOutcome reports whether an outcome may be removed.
func (d *Draft) CanRemoveOutcome() bool {
	return len(d.Outcomes) > MinOutcomes
}

// AddOutcome appends a blank outcome owned by ownerID. It reports false and
// changes nothing once the draft holds MaxOutcomes.
func (d *Draft) AddOutcome(ownerID string) bool {
	if !d.CanAddOutcome() {
		return false
	}
	d.Outcomes = append(d.Outcomes, NewOutcome(ownerID))
	return true
}

// RemoveOutcome deletes outcome i. It reports false and changes nothing when
// i is out of range or the draft is at MinOutcomes.
func (d *Draft) RemoveOutcome(i int) bool {
	if !d.CanRemoveOutcome() || i < 0 || i >= len(d.Outcomes) {
		return false
	}
	d.Outcomes = append(d.Outcomes[:i], d.Outcomes[i+1:]...)
	return true
}

// SetParent selects the department goal the draft ladders up to.
func (d *Draft) SetParent(id string) {
	d.Parent = whygo.ParseParentRef(id)
}

// ToRequest validates the draft and converts it to the create-goal body.
func (d *Draft) ToRequest() (api.CreateGoalRequest, error) {
	if err := d.Validate(); err != nil {
		return api.CreateGoalRequest{}, err
	}
	req := api.CreateGoalRequest{
		ParentGoalIDs: []string{d.Parent.ID},
		Why:           d.Why,
		Goal:          d.Goal,
		Outcomes:      make([]api.OutcomeRequest, len(d.Outcomes)),
	}
	for i, o := range d.Outcomes {
		req.Outcomes[i] = api.OutcomeRequest{
			Description:  o.Description,
			MetricType:   o.MetricType,
			OwnerID:      o.OwnerID,
			TargetAnnual: o.TargetAnnual,
			TargetQ1:     o.TargetQ1,
			TargetQ2:     o.TargetQ2,
			TargetQ3:     o.TargetQ3,
			TargetQ4:     o.TargetQ4,
		}
	}
	return req, nil
}

// ParentOption is a selectable department goal.
type ParentOption struct {
	ID    string
	Label string
}

// ParentOptions lists the department goals a draft may ladder up to, in
// the order the server returned them.
func ParentOptions(goals []whygo.DepartmentGoal) []ParentOption {
	opts := make([]ParentOption, len(goals))
	for i, g := range goals {
		opts[i] = ParentOption{
			ID:    g.ID,
			Label: fmt.Sprintf("Dept Goal #%d: %s", i+1, util.Preview(g.Goal.Goal, 60)),
		}
	}
	return opts
}
