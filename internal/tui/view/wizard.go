package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/util"
	"github.com/kartel/whygo/internal/whygo"
	"github.com/kartel/whygo/internal/wizard"
)

// ProfileLoadFailed is shown on the profile step when the onboarding
// context could not be loaded.
const ProfileLoadFailed = "Failed to load profile data."

// StepIndicator renders the wizard progress line. Finished steps carry a
// tick.
func StepIndicator(s *styles.Styles, current wizard.Step) string {
	steps := wizard.Steps()
	parts := make([]string, 0, len(steps))
	for _, st := range steps {
		label := fmt.Sprintf("%d %s", int(st), st.Title())
		switch {
		case st < current:
			parts = append(parts, s.StepDone.Render("✓ "+st.Title()))
		case st == current:
			parts = append(parts, s.StepActive.Render(label))
		default:
			parts = append(parts, s.StepPending.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderProfile renders step 1.
func RenderProfile(s *styles.Styles, oc *whygo.OnboardingContext) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Welcome!"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Let's confirm your profile before we get started"))
	b.WriteString("\n\n")

	if !oc.Complete() {
		b.WriteString(s.ErrorMsg.Render(ProfileLoadFailed))
		return b.String()
	}

	var card strings.Builder
	card.WriteString(s.PanelTitle.Render("Your Profile"))
	card.WriteString("\n")
	field := func(label, value string) {
		card.WriteString(s.FieldLabel.Render(label))
		card.WriteString("\n")
		card.WriteString(value)
		card.WriteString("\n")
	}
	field("Name", s.Text.Bold(true).Render(oc.Person.Name))
	field("Title", oc.Person.Title)
	field("Department", oc.Department.Name)
	field("Role", s.Badge.Render(oc.Person.Level.Label()))
	if oc.Manager != nil {
		field("Reports to", oc.Manager.Name)
	}
	b.WriteString(s.Panel.Render(strings.TrimRight(card.String(), "\n")))
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("Continue to Company Goals"))
	return b.String()
}

// RenderCompanyGoals renders step 2.
func RenderCompanyGoals(s *styles.Styles, oc *whygo.OnboardingContext, width int) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Company Goals for 2026"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(fmt.Sprintf(
		"These are Kartel's %d strategic priorities. Your department and individual goals will ladder up to these.",
		len(oc.CompanyGoals))))
	b.WriteString("\n\n")

	for i, g := range oc.CompanyGoals {
		heading := fmt.Sprintf("Company Goal #%d", i+1)
		lines := goalBody(s, g.Goal, func(o whygo.Outcome) string {
			qs := make([]string, 0, 4)
			for _, q := range whygo.Quarters() {
				qs = append(qs, q.Label()+": "+amountOrTBD(o.Target(q)))
			}
			return strings.Join(qs, "  ")
		})
		b.WriteString(goalCard(s, heading, len(g.Outcomes), "", lines, width))
		b.WriteString("\n")
	}
	b.WriteString(s.Muted.Render("Continue to Department Goals"))
	return b.String()
}

// RenderDepartmentGoals renders step 3.
func RenderDepartmentGoals(s *styles.Styles, oc *whygo.OnboardingContext, width int) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(oc.Department.Name + " Department Goals"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("These are your department's priorities. Your individual goals should connect to at least one of these."))
	b.WriteString("\n\n")

	if len(oc.DepartmentGoals) == 0 {
		b.WriteString(s.Panel.Render("Your department hasn't set goals yet. You can still create individual goals and connect them later."))
		b.WriteString("\n")
	}
	for i, g := range oc.DepartmentGoals {
		heading := fmt.Sprintf("Department Goal #%d", i+1)
		ladder := ""
		if len(g.Parents) > 0 {
			ladder = "↑ Ladders to " + g.Parents[0].Label()
		}
		lines := goalBody(s, g.Goal, func(o whygo.Outcome) string {
			return "Annual: " + amountOrTBD(o.TargetAnnual)
		})
		b.WriteString(goalCard(s, heading, len(g.Outcomes), ladder, lines, width))
		b.WriteString("\n")
	}
	b.WriteString(s.Muted.Render("Continue to Your Goals"))
	return b.String()
}

// RenderComplete renders step 5.
func RenderComplete(s *styles.Styles, oc *whygo.OnboardingContext) string {
	var b strings.Builder
	b.WriteString(s.SuccessMsg.Render("✓ You're All Set!"))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render("Your goal has been submitted for approval"))
	b.WriteString("\n\n")

	reviewer := "Your manager will"
	if oc != nil && oc.Manager != nil && oc.Manager.Name != "" {
		reviewer = oc.Manager.Name + " will"
	}
	steps := []struct{ title, text string }{
		{"Manager Review", reviewer + " review your goal for alignment and feasibility"},
		{"Approval", "Once approved, your goal becomes active"},
		{"Track Progress", "Update your progress quarterly in the dashboard"},
	}

	var card strings.Builder
	card.WriteString(s.PanelTitle.Render("What Happens Next?"))
	for i, st := range steps {
		fmt.Fprintf(&card, "\n%s %s\n   %s", s.Primary.Render(fmt.Sprintf("%d.", i+1)), s.Text.Bold(true).Render(st.title), s.Muted.Render(st.text))
	}
	b.WriteString(s.Panel.Render(card.String()))
	b.WriteString("\n\n")
	b.WriteString(s.Muted.Render("Go to Dashboard"))
	return b.String()
}

// goalBody renders the Why, Goal and Outcomes sections shared by company
// and department goals.
func goalBody(s *styles.Styles, g whygo.Goal, targets func(whygo.Outcome) string) []string {
	lines := []string{
		s.SectionTitle.Render("WHY"),
		g.Why,
		"",
		s.SectionTitle.Render("GOAL"),
		s.Text.Bold(true).Render(g.Goal),
		"",
		s.SectionTitle.Render("OUTCOMES"),
	}
	for _, o := range g.Outcomes {
		lines = append(lines,
			s.Primary.Render("• ")+o.Description,
			"  "+s.Muted.Render(targets(o)))
	}
	return lines
}

func goalCard(s *styles.Styles, heading string, outcomes int, subheading string, lines []string, width int) string {
	top := s.Primary.Bold(true).Render(heading) + "  " + s.Muted.Render(util.Plural(outcomes, "Outcome"))
	body := []string{top}
	if subheading != "" {
		body = append(body, s.Muted.Render(subheading))
	}
	body = append(body, lines...)
	return panelStyle(s, width).Render(strings.Join(body, "\n"))
}

// PanelMinWidth is the narrowest width a panel is stretched to.
const PanelMinWidth = 20

func amountOrTBD(n whygo.Number) string {
	if !n.Valid || n.Float64 == 0 {
		return "TBD"
	}
	return util.FormatAmount(n.Float64)
}
