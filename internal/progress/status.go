// Package progress computes goal status from quarterly outcome targets and
// actuals. Every function is pure and never fails: missing data yields
// StatusNotStarted rather than an error.
package progress

import (
	"math"
	"time"

	"github.com/kartel/whygo/internal/whygo"
)

// Status is the progress classification of an outcome or goal.
type Status string

const (
	StatusNotStarted     Status = "not_started"
	StatusOnTrack        Status = "on_track"
	StatusSlightlyBehind Status = "slightly_behind"
	StatusOffTrack       Status = "off_track"
)

// Classification thresholds, in percent of target.
const (
	OnTrackThreshold        = 100.0
	SlightlyBehindThreshold = 80.0
)

// Statuses lists every status, best first.
func Statuses() []Status {
	return []Status{StatusOnTrack, StatusSlightlyBehind, StatusOffTrack, StatusNotStarted}
}

// Label returns the human form of the status.
func (s Status) Label() string {
	switch s {
	case StatusOnTrack:
		return "On Track"
	case StatusSlightlyBehind:
		return "Slightly Behind"
	case StatusOffTrack:
		return "Off Track"
	case StatusNotStarted:
		return "Not Started"
	}
	return string(s)
}

// Result is the evaluated status plus the percentage of target reached.
// Percent is nil whenever Status is StatusNotStarted.
type Result struct {
	Status  Status   `json:"status" yaml:"status"`
	Percent *float64 `json:"percentage" yaml:"percentage"`
}

func notStarted() Result {
	return Result{Status: StatusNotStarted}
}

func fromPercent(pct float64) Result {
	return Result{Status: Classify(pct), Percent: &pct}
}

// Classify maps a percentage of target to a status:
// >=100 on track, >=80 slightly behind, below that off track.
func Classify(pct float64) Status {
	switch {
	case pct >= OnTrackThreshold:
		return StatusOnTrack
	case pct >= SlightlyBehindThreshold:
		return StatusSlightlyBehind
	default:
		return StatusOffTrack
	}
}

// percentOf returns actual*100/target when both are set and finite, target
// is non-zero and the result is finite.
func percentOf(o whygo.Outcome, q whygo.Quarter) (float64, bool) {
	actual := o.Actual(q)
	target := o.Target(q)
	if !finite(actual) || !finite(target) || target.Float64 == 0 {
		return 0, false
	}
	pct := actual.Float64 * 100 / target.Float64
	if math.IsInf(pct, 0) {
		return 0, false
	}
	return pct, true
}

func finite(n whygo.Number) bool {
	return n.Valid && !math.IsNaN(n.Float64) && !math.IsInf(n.Float64, 0)
}

// EvaluateOutcome returns the status of a single outcome for quarter q.
func EvaluateOutcome(o whygo.Outcome, q whygo.Quarter) Result {
	pct, ok := percentOf(o, q)
	if !ok {
		return notStarted()
	}
	return fromPercent(pct)
}

// Evaluate returns the status of a goal's outcome set for quarter q.
//
// When no outcome has an actual for q the goal has not started. Otherwise the
// goal percentage is the arithmetic mean of the per-outcome percentages that
// can be computed (actual and target finite, target non-zero). If none can
// be computed the goal is reported as not started.
func Evaluate(outcomes []whygo.Outcome, q whygo.Quarter) Result {
	var (
		sum       float64
		counted   int
		anyActual bool
	)
	for _, o := range outcomes {
		if o.Actual(q).Valid {
			anyActual = true
		}
		if pct, ok := percentOf(o, q); ok {
			sum += pct
			counted++
		}
	}
	if !anyActual || counted == 0 {
		return notStarted()
	}
	return fromPercent(sum / float64(counted))
}

// QuarterResult pairs a quarter with its evaluated result.
type QuarterResult struct {
	Quarter whygo.Quarter `json:"quarter" yaml:"quarter"`
	Result  `yaml:",inline"`
}

// Timeline evaluates the outcome set for each of Q1..Q4.
func Timeline(outcomes []whygo.Outcome) [4]QuarterResult {
	var out [4]QuarterResult
	for i, q := range whygo.Quarters() {
		out[i] = QuarterResult{Quarter: q, Result: Evaluate(outcomes, q)}
	}
	return out
}

// CurrentQuarter returns the calendar quarter containing now.
func CurrentQuarter(now time.Time) whygo.Quarter {
	return whygo.QuarterOf(now)
}

// Clamp bounds a percentage to 0..100 for progress bars. A nil percentage
// renders as 0.
func Clamp(pct *float64) float64 {
	if pct == nil {
		return 0
	}
	switch {
	case *pct < 0:
		return 0
	case *pct > 100:
		return 100
	default:
		return *pct
	}
}

// Summary counts how many goals fall into each status.
type Summary map[Status]int

// Summarize evaluates each goal's outcomes for q and tallies the statuses.
func Summarize(goals [][]whygo.Outcome, q whygo.Quarter) Summary {
	s := make(Summary, len(Statuses()))
	for _, outcomes := range goals {
		s[Evaluate(outcomes, q).Status]++
	}
	return s
}
