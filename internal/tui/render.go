package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/tui/view"
	"github.com/kartel/whygo/internal/wizard"
)

// Loading lines
const (
	loadingOnboarding = "Loading your onboarding..."
	loadingDashboard  = "Loading dashboard..."
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = DefaultWidth
	}

	var subtitle, name, body string
	if m.sess != nil {
		name = m.sess.PersonName
	}
	switch m.screen {
	case ScreenLogin:
		subtitle = "Sign in"
		if m.login != nil {
			body = m.login.render(m.styles, m.spinner.View())
		}
	case ScreenWizard:
		subtitle = "Onboarding"
		body = m.renderWizard(width)
	case ScreenDashboard:
		subtitle = "Dashboard"
		body = m.renderDashboard(width)
	}

	parts := []string{view.RenderHeader(m.styles, subtitle, name, width)}
	parts = append(parts, m.clip(body))
	if notice := view.RenderNotice(m.styles, m.noticeKind, m.notice); notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, view.RenderHelp(m.styles, m.keys.Help(m.mode())))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// clip shows the body rows that fit the terminal, starting at the scroll
// offset. Before the first size message the body is shown whole.
func (m Model) clip(body string) string {
	if m.height <= 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	rows := BodyHeightFor(m.height)
	if m.notice != "" {
		rows = max(rows-1, 1)
	}
	if len(lines) <= rows {
		return body
	}
	offset := min(m.scroll, len(lines)-rows)
	return strings.Join(lines[offset:offset+rows], "\n")
}

func (m Model) renderWizard(width int) string {
	if m.flow == nil {
		return ""
	}
	ctrl := m.flow.Controller()
	step := ctrl.Current()
	oc := ctrl.Context()

	var content string
	switch {
	case m.loadingCtx:
		content = m.spinner.View() + " " + m.styles.Muted.Render(loadingOnboarding)
	case step == wizard.StepProfile:
		content = view.RenderProfile(m.styles, oc)
	case step == wizard.StepCompany:
		content = view.RenderCompanyGoals(m.styles, oc, width)
	case step == wizard.StepDepartment:
		content = view.RenderDepartmentGoals(m.styles, oc, width)
	case step == wizard.StepGoals:
		if m.form != nil {
			content = m.form.render(m.styles)
			if m.form.submitting {
				content += "\n" + m.spinner.View()
			}
		}
	case step == wizard.StepComplete:
		content = view.RenderComplete(m.styles, oc)
	}
	return view.StepIndicator(m.styles, step) + "\n\n" + content
}

func (m Model) renderDashboard(width int) string {
	if m.snap == nil {
		return m.spinner.View() + " " + m.styles.Muted.Render(loadingDashboard)
	}
	snap := m.snap
	sidebar := view.RenderSidebar(m.styles, snap.Context, snap.Err(dashboard.PanelContext), SidebarWidthFor(width))

	mainWidth := MainWidthFor(width)
	main := lipgloss.JoinVertical(lipgloss.Left,
		view.RenderGoalCards(m.styles, snap, mainWidth),
		view.RenderLeadership(m.styles, snap, m.selected, mainWidth),
	)

	gap := strings.Repeat(" ", PanelGap)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, gap, main)
	return body + "\n" + view.RenderFooter(m.styles, snap)
}
