package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kartel/whygo/internal/draft"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/whygo"
)

// Goal form texts
const (
	formSubmitFailed = "Failed to create goal"
	formSubmitBusy   = "Creating Goal..."
	formSubmitLabel  = "Create Goal & Complete"
	formNoParent     = "Select department goal..."
)

// fieldKind identifies an input of the goal form.
type fieldKind int

const (
	fieldParent fieldKind = iota
	fieldWhy
	fieldGoal
	fieldDescription
	fieldMetric
	fieldAnnual
	fieldQuarter
)

// formField addresses one input. outcome and quarter are set only for
// outcome fields.
type formField struct {
	kind    fieldKind
	outcome int
	quarter whygo.Quarter
}

// selector reports whether the field cycles through options instead of
// taking text.
func (f formField) selector() bool {
	return f.kind == fieldParent || f.kind == fieldMetric
}

// path returns the draft field path validation errors are reported under.
func (f formField) path() string {
	switch f.kind {
	case fieldParent:
		return "parent"
	case fieldWhy:
		return "why"
	case fieldGoal:
		return "goal"
	case fieldDescription:
		return fmt.Sprintf("outcomes[%d].description", f.outcome)
	case fieldMetric:
		return fmt.Sprintf("outcomes[%d].metric_type", f.outcome)
	case fieldAnnual:
		return fmt.Sprintf("outcomes[%d].target_annual", f.outcome)
	case fieldQuarter:
		return fmt.Sprintf("outcomes[%d].target_%s", f.outcome, f.quarter)
	}
	return ""
}

// outcomeInputs holds the inputs of one outcome editor.
type outcomeInputs struct {
	description textinput.Model
	metric      int // index into whygo.MetricTypes()
	annual      textinput.Model
	quarters    [4]textinput.Model
}

func newOutcomeInputs() *outcomeInputs {
	o := &outcomeInputs{
		description: newTextInput("What will you measure?", 40),
		annual:      newTextInput("e.g., 100", 12),
	}
	for i, q := range whygo.Quarters() {
		o.quarters[i] = newTextInput(q.Label(), 8)
	}
	return o
}

func newTextInput(placeholder string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Width = width
	return ti
}

func newTextArea(placeholder string, limit int) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = limit
	ta.ShowLineNumbers = false
	ta.SetWidth(FormFieldWidth)
	ta.SetHeight(3)
	return ta
}

// goalForm is the goals step: one individual goal with two or three
// outcomes.
type goalForm struct {
	ownerID string
	level   whygo.Level

	parents []draft.ParentOption
	parent  int // -1 until a department goal is chosen

	why      textarea.Model
	goal     textarea.Model
	outcomes []*outcomeInputs

	focus int

	errs       errors.ValidationErrors
	submitErr  string
	submitting bool
}

func newGoalForm(oc *whygo.OnboardingContext) *goalForm {
	f := &goalForm{
		ownerID: oc.Person.ID,
		level:   oc.Person.Level,
		parents: draft.ParentOptions(oc.DepartmentGoals),
		parent:  -1,
		why:     newTextArea("Why does this goal matter to Kartel? (Max 500 characters)", draft.MaxWhy),
		goal:    newTextArea("Clear, specific objective (Max 300 characters)", draft.MaxGoal),
	}
	for range draft.MinOutcomes {
		f.outcomes = append(f.outcomes, newOutcomeInputs())
	}
	return f
}

// fields lists every input in tab order.
func (f *goalForm) fields() []formField {
	out := []formField{{kind: fieldParent}, {kind: fieldWhy}, {kind: fieldGoal}}
	for i := range f.outcomes {
		out = append(out,
			formField{kind: fieldDescription, outcome: i},
			formField{kind: fieldMetric, outcome: i},
			formField{kind: fieldAnnual, outcome: i})
		for _, q := range whygo.Quarters() {
			out = append(out, formField{kind: fieldQuarter, outcome: i, quarter: q})
		}
	}
	return out
}

// current returns the focused field.
func (f *goalForm) current() formField {
	fields := f.fields()
	if f.focus < 0 || f.focus >= len(fields) {
		return fields[0]
	}
	return fields[f.focus]
}

// setFocus moves focus to field i, wrapping at both ends.
func (f *goalForm) setFocus(i int) tea.Cmd {
	n := len(f.fields())
	f.focus = ((i % n) + n) % n

	f.why.Blur()
	f.goal.Blur()
	for _, o := range f.outcomes {
		o.description.Blur()
		o.annual.Blur()
		for q := range o.quarters {
			o.quarters[q].Blur()
		}
	}

	field := f.current()
	switch field.kind {
	case fieldWhy:
		return f.why.Focus()
	case fieldGoal:
		return f.goal.Focus()
	case fieldDescription:
		return f.outcomes[field.outcome].description.Focus()
	case fieldAnnual:
		return f.outcomes[field.outcome].annual.Focus()
	case fieldQuarter:
		return f.outcomes[field.outcome].quarters[field.quarter-1].Focus()
	case fieldParent, fieldMetric:
	}
	return nil
}

func (f *goalForm) next() tea.Cmd { return f.setFocus(f.focus + 1) }
func (f *goalForm) prev() tea.Cmd { return f.setFocus(f.focus - 1) }

// cycle steps the focused selector by delta.
func (f *goalForm) cycle(delta int) {
	field := f.current()
	switch field.kind {
	case fieldParent:
		n := len(f.parents)
		if n == 0 {
			return
		}
		if f.parent < 0 {
			if delta > 0 {
				f.parent = 0
			} else {
				f.parent = n - 1
			}
			return
		}
		f.parent = ((f.parent+delta)%n + n) % n
	case fieldMetric:
		n := len(whygo.MetricTypes())
		o := f.outcomes[field.outcome]
		o.metric = ((o.metric+delta)%n + n) % n
	case fieldWhy, fieldGoal, fieldDescription, fieldAnnual, fieldQuarter:
	}
}

// addOutcome appends an outcome editor and focuses its description.
func (f *goalForm) addOutcome() tea.Cmd {
	if len(f.outcomes) >= draft.MaxOutcomes {
		return nil
	}
	f.outcomes = append(f.outcomes, newOutcomeInputs())
	// Parent, why and goal come first.
	return f.setFocus(3 + (len(f.outcomes)-1)*outcomeFieldCount)
}

// outcomeFieldCount is description, metric, annual and Q1..Q4.
const outcomeFieldCount = 7

// removeOutcome deletes the focused outcome, or the last one when focus is
// outside the outcomes.
func (f *goalForm) removeOutcome() tea.Cmd {
	if len(f.outcomes) <= draft.MinOutcomes {
		return nil
	}
	idx := len(f.outcomes) - 1
	if field := f.current(); field.kind >= fieldDescription {
		idx = field.outcome
	}
	f.outcomes = append(f.outcomes[:idx], f.outcomes[idx+1:]...)
	f.errs = nil
	return f.setFocus(min(f.focus, len(f.fields())-1))
}

// update forwards a key to the focused text input.
func (f *goalForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	field := f.current()
	switch field.kind {
	case fieldWhy:
		f.why, cmd = f.why.Update(msg)
	case fieldGoal:
		f.goal, cmd = f.goal.Update(msg)
	case fieldDescription:
		o := f.outcomes[field.outcome]
		o.description, cmd = o.description.Update(msg)
	case fieldAnnual:
		o := f.outcomes[field.outcome]
		o.annual, cmd = o.annual.Update(msg)
	case fieldQuarter:
		o := f.outcomes[field.outcome]
		o.quarters[field.quarter-1], cmd = o.quarters[field.quarter-1].Update(msg)
	case fieldParent, fieldMetric:
	}
	return cmd
}

// draft builds the draft from the inputs. Unparseable numbers and every
// validation failure come back together as errors.ValidationErrors.
func (f *goalForm) draft() (*draft.Draft, error) {
	d := &draft.Draft{Why: f.why.Value(), Goal: f.goal.Value()}
	if f.parent >= 0 && f.parent < len(f.parents) {
		d.SetParent(f.parents[f.parent].ID)
	}

	var errs errors.ValidationErrors
	for i, in := range f.outcomes {
		o := draft.NewOutcome(f.ownerID)
		o.Description = in.description.Value()
		o.MetricType = whygo.MetricTypes()[in.metric]

		annualField := formField{kind: fieldAnnual, outcome: i}
		if v, err := parseAmount(in.annual.Value(), true); err != nil {
			errs = append(errs, errors.NewValidationError(err.Error()).WithField(annualField.path()))
		} else {
			o.TargetAnnual = *v
		}
		for qi, q := range whygo.Quarters() {
			v, err := parseAmount(in.quarters[qi].Value(), false)
			if err != nil {
				qf := formField{kind: fieldQuarter, outcome: i, quarter: q}
				errs = append(errs, errors.NewValidationError(err.Error()).WithField(qf.path()))
				continue
			}
			*o.Quarter(q) = v
		}
		d.Outcomes = append(d.Outcomes, o)
	}

	if err := d.Validate(); err != nil {
		var list errors.ValidationErrors
		if !errors.As(err, &list) {
			return nil, err
		}
		errs = append(errs, list...)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return d, nil
}

// parseAmount parses a target typed as "1250", "1,250" or "12.5". Blank
// input is nil unless required.
func parseAmount(s string, required bool) (*float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		if required {
			return nil, errors.New("is required")
		}
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("must be a number")
	}
	return &v, nil
}

// fail records a rejected submission. Validation failures are shown next
// to their fields; anything else is shown above the submit button.
func (f *goalForm) fail(err error) {
	f.submitting = false
	var list errors.ValidationErrors
	if errors.As(err, &list) {
		f.errs = list
		f.submitErr = ""
		return
	}
	f.errs = nil
	msg := errors.UserMessage(err)
	if !errors.IsUserFacing(err) || msg == "" {
		msg = formSubmitFailed
	}
	f.submitErr = msg
}

func (f *goalForm) render(s *styles.Styles) string {
	focused := f.current()
	var b strings.Builder

	label := func(field formField, text string) string {
		if field == focused {
			return s.FieldActive.Render("› " + text)
		}
		return s.FieldLabel.Render("  " + text)
	}
	fieldErr := func(path string) {
		if e := f.errs.Field(path); e != nil {
			b.WriteString("  " + s.ErrorMsg.Render(e.Message()) + "\n")
		}
	}

	b.WriteString(s.Title.Render("Create Your Individual Goal"))
	b.WriteString("\n")
	intro := "Set your first individual goal for 2026. Remember: maximum 3 goals total."
	if f.level == whygo.LevelDepartmentHead {
		intro = "As a department head, you can set both department and individual goals. Let's start with one personal goal."
	}
	b.WriteString(s.Subtitle.Render(intro))
	b.WriteString("\n\n")

	// Alignment
	b.WriteString(s.SectionTitle.Render("GOAL ALIGNMENT") + "\n")
	parentField := formField{kind: fieldParent}
	b.WriteString(label(parentField, "Connect to Department Goal *") + "\n")
	choice := s.Muted.Render(formNoParent)
	if f.parent >= 0 && f.parent < len(f.parents) {
		choice = f.parents[f.parent].Label
	}
	if len(f.parents) == 0 {
		choice = s.Muted.Render("Your department hasn't set goals yet")
	}
	b.WriteString("    ‹ " + choice + " ›\n")
	b.WriteString("    " + s.Muted.Render("Your goal must ladder up to a department goal") + "\n")
	fieldErr(parentField.path())
	b.WriteString("\n")

	// Why and goal
	b.WriteString(s.SectionTitle.Render("WHY & GOAL") + "\n")
	for _, ta := range []struct {
		field formField
		title string
		input textarea.Model
		limit int
	}{
		{formField{kind: fieldWhy}, "WHY (Strategic importance) *", f.why, draft.MaxWhy},
		{formField{kind: fieldGoal}, "GOAL (What will be achieved) *", f.goal, draft.MaxGoal},
	} {
		b.WriteString(label(ta.field, ta.title) + "\n")
		b.WriteString(ta.input.View() + "\n")
		b.WriteString("  " + counter(s, ta.input.Value(), ta.limit) + "\n")
		fieldErr(ta.field.path())
	}
	b.WriteString("\n")

	// Outcomes
	heading := s.SectionTitle.Render(fmt.Sprintf("OUTCOMES (%d-%d required)", draft.MinOutcomes, draft.MaxOutcomes))
	if len(f.outcomes) < draft.MaxOutcomes {
		heading += "  " + s.HelpKey.Render("[ctrl+n]") + " Add Outcome"
	}
	b.WriteString(heading + "\n")
	fieldErr("outcomes")
	for i, o := range f.outcomes {
		title := fmt.Sprintf("Outcome %d", i+1)
		if len(f.outcomes) > draft.MinOutcomes {
			title += "  " + s.Muted.Render("[ctrl+x] remove")
		}
		b.WriteString(s.Text.Bold(true).Render(title) + "\n")

		desc := formField{kind: fieldDescription, outcome: i}
		b.WriteString(label(desc, "Description *") + "  " + o.description.View() + "\n")
		fieldErr(desc.path())

		metric := formField{kind: fieldMetric, outcome: i}
		b.WriteString(label(metric, "Metric Type *") + "  ‹ " + whygo.MetricTypes()[o.metric].Label() + " ›\n")
		fieldErr(metric.path())

		annual := formField{kind: fieldAnnual, outcome: i}
		b.WriteString(label(annual, "Annual Target *") + "  " + o.annual.View() + "\n")
		fieldErr(annual.path())

		var qs []string
		for qi, q := range whygo.Quarters() {
			qf := formField{kind: fieldQuarter, outcome: i, quarter: q}
			qs = append(qs, label(qf, q.Label()+" Target")+" "+o.quarters[qi].View())
		}
		b.WriteString(strings.Join(qs, " ") + "\n")
		for _, q := range whygo.Quarters() {
			fieldErr(formField{kind: fieldQuarter, outcome: i, quarter: q}.path())
		}
		b.WriteString("\n")
	}

	if f.submitErr != "" {
		b.WriteString(s.ErrorMsg.Render(f.submitErr) + "\n\n")
	}
	if f.submitting {
		b.WriteString(s.Muted.Render(formSubmitBusy))
	} else {
		b.WriteString(s.HelpKey.Render("[ctrl+s]") + " " + s.Primary.Bold(true).Render(formSubmitLabel))
	}
	return b.String()
}

// counter renders "n/limit characters".
func counter(s *styles.Styles, value string, limit int) string {
	n := utf8.RuneCountInString(value)
	text := fmt.Sprintf("%d/%d characters", n, limit)
	if n >= limit {
		return s.CounterOver.Render(text)
	}
	return s.Muted.Render(text)
}
