package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/progress"
	"github.com/kartel/whygo/internal/tui/styles"
	"github.com/kartel/whygo/internal/util"
)

// Dashboard texts
const (
	GoalsLoadFailed     = "Failed to load goals"
	TeamLoadFailed      = "Failed to load team"
	ApprovalsLoadFailed = "Failed to load approvals"
	NoGoals             = "No goals yet. Create your first goal!"
	NoTeamMembers       = "No team members found"
	NoPendingApprovals  = "No pending approvals"
	LeadershipTitle     = "Team & Approvals"
	LeadershipSubtitle  = "Monitor your team's progress"
	LeadershipLocked    = "Leadership features available for managers and executives"
	NotStartedLabel     = "Not started"
	FooterText          = "2026 WhyGO Goals"
)

// RenderGoalCards renders the "Your Goals" panel.
func RenderGoalCards(s *styles.Styles, snap *dashboard.Snapshot, width int) string {
	title := s.PanelTitle.Render(string(dashboard.PanelGoals))
	if snap.CanAddGoal && snap.Err(dashboard.PanelGoals) == nil {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", s.HelpKey.Render("[n]")+" Add Goal")
	}
	lines := []string{title}

	switch {
	case snap.Err(dashboard.PanelGoals) != nil:
		lines = append(lines, s.ErrorMsg.Render(GoalsLoadFailed))
	case len(snap.Goals) == 0:
		lines = append(lines, s.Muted.Render(NoGoals))
	default:
		if summary := renderSummary(s, snap.Summary); summary != "" {
			lines = append(lines, summary, "")
		}
		for i, card := range snap.Goals {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, renderGoalCard(s, card, snap, width-PanelChrome)...)
		}
	}

	return panelStyle(s, width).Render(strings.Join(lines, "\n"))
}

func renderGoalCard(s *styles.Styles, card dashboard.GoalCard, snap *dashboard.Snapshot, width int) []string {
	status := card.Current.Status

	badge := s.Muted.Render(card.Goal.StatusLabel())
	if card.Approved() {
		badge = s.Badge.Render("✓ approved")
	}
	head := s.StatusDot(status) + " " + s.Text.Bold(true).Render(util.TruncateString(card.Goal.Goal.Goal, max(width-20, 10))) + "  " + badge

	pct := NotStartedLabel
	if card.Current.Percent != nil {
		pct = util.Percent(*card.Current.Percent)
	}
	bar := s.Muted.Render("Progress ") + s.ProgressBar(status, card.Current.Percent, ProgressBarWidth) + " " + pct

	quarters := make([]string, len(card.Timeline))
	for i, qr := range card.Timeline {
		label := styles.StatusIcon(qr.Status) + " " + qr.Quarter.Label()
		style := lipgloss.NewStyle().Foreground(s.StatusColor(qr.Status))
		if qr.Quarter == snap.Quarter {
			style = style.Bold(true).Underline(true)
		}
		quarters[i] = style.Render(label)
	}

	lines := []string{head, bar, strings.Join(quarters, "  ")}
	if len(card.Connections) > 0 {
		conns := make([]string, len(card.Connections))
		for i, c := range card.Connections {
			conns[i] = c.Label
			if c.Title != "" {
				conns[i] += " (" + util.Preview(c.Title, 30) + ")"
			}
		}
		lines = append(lines, s.Muted.Render("Connected to: ")+strings.Join(conns, ", "))
	}
	return lines
}

// renderSummary renders the non-zero status counts, best first.
func renderSummary(s *styles.Styles, sum progress.Summary) string {
	var parts []string
	for _, st := range progress.Statuses() {
		if n := sum[st]; n > 0 {
			parts = append(parts, s.StatusDot(st)+" "+fmt.Sprintf("%d %s", n, strings.ToLower(st.Label())))
		}
	}
	return strings.Join(parts, "  ")
}

// ProgressBarWidth is the width of a goal card's progress bar.
const ProgressBarWidth = 20

// PanelChrome is the horizontal space taken by a panel's border and padding.
const PanelChrome = 4

// RenderLeadership renders team progress and pending approvals. selected is
// the index of the highlighted approval row.
func RenderLeadership(s *styles.Styles, snap *dashboard.Snapshot, selected int, width int) string {
	lines := []string{s.PanelTitle.Render(LeadershipTitle)}
	caps := snap.Capabilities
	if !caps.Leadership() {
		lines = append(lines, s.Muted.Render(LeadershipLocked))
		return panelStyle(s, width).Render(strings.Join(lines, "\n"))
	}
	lines = append(lines, s.Subtitle.Render(LeadershipSubtitle))

	if caps.CanViewTeam {
		lines = append(lines, "", s.SectionTitle.Render(string(dashboard.PanelTeam)))
		switch {
		case snap.Err(dashboard.PanelTeam) != nil:
			lines = append(lines, s.ErrorMsg.Render(TeamLoadFailed))
		case len(snap.Team) == 0:
			lines = append(lines, s.Muted.Render(NoTeamMembers))
		}
		for _, row := range snap.Team {
			lines = append(lines, fmt.Sprintf("%s %s %s  %s %s",
				s.Badge.Render(row.Person.Initials()),
				s.Text.Bold(true).Render(row.Person.Name),
				s.Muted.Render(row.Person.Title),
				row.GoalsLabel(),
				s.StatusDot(row.Status)))
		}
	}

	if caps.CanApproveGoals {
		lines = append(lines, "", s.SectionTitle.Render(string(dashboard.PanelApprovals)))
		switch {
		case snap.Err(dashboard.PanelApprovals) != nil:
			lines = append(lines, s.ErrorMsg.Render(ApprovalsLoadFailed))
		case len(snap.Approvals) == 0:
			lines = append(lines, s.Muted.Render(NoPendingApprovals))
		}
		for i, row := range snap.Approvals {
			goal := util.TruncateString(row.Goal.Goal.Goal, max(width-PanelChrome-4, 10))
			if i == selected {
				lines = append(lines, s.Selected.Render("> "+row.Submitter)+"\n  "+goal)
				continue
			}
			lines = append(lines, "  "+s.Muted.Render(row.Submitter)+"\n  "+goal)
		}
	}
	return panelStyle(s, width).Render(strings.Join(lines, "\n"))
}

// RenderFooter renders the dashboard footer with the quarter status is
// computed for.
func RenderFooter(s *styles.Styles, snap *dashboard.Snapshot) string {
	text := FooterText
	if snap != nil {
		text += " · " + snap.Quarter.Label() + " · updated " + snap.LoadedAt.Format("15:04")
	}
	return s.Muted.Render(text)
}

func panelStyle(s *styles.Styles, width int) lipgloss.Style {
	if width > PanelMinWidth {
		return s.Panel.Width(width - 2)
	}
	return s.Panel
}
