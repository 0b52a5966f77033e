package view

import (
	"fmt"
	"strings"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/tui/styles"
)

// Sidebar texts
const (
	SidebarTitle        = "Goals Context"
	NoCompanyGoals      = "No company goals found"
	NoDepartmentGoals   = "No department goals found"
	ContextLoadFailed   = "Failed to load goals context"
	companySectionTitle = "Company WhyGOs"
	deptSectionTitle    = "Your Department"
)

// RenderSidebar renders the goals context: numbered company goals, then the
// department goals with the company goals they ladder up to. A load error
// is shown above whatever did load.
func RenderSidebar(s *styles.Styles, panel dashboard.ContextPanel, err error, width int) string {
	var lines []string
	lines = append(lines, s.PanelTitle.Render(SidebarTitle)+"\n"+s.Muted.Render("Company & Department"))
	if err != nil {
		lines = append(lines, s.ErrorMsg.Render(ContextLoadFailed))
	}

	lines = append(lines, "", s.SectionTitle.Render(strings.ToUpper(companySectionTitle)))
	if len(panel.Company) == 0 {
		lines = append(lines, s.Muted.Render(NoCompanyGoals))
	}
	for _, item := range panel.Company {
		lines = append(lines, fmt.Sprintf("%s %s", s.Primary.Render(fmt.Sprintf("#%d:", item.Number)), item.Preview))
	}

	lines = append(lines, "", s.SectionTitle.Render(strings.ToUpper(deptSectionTitle)))
	if len(panel.Department) == 0 {
		lines = append(lines, s.Muted.Render(NoDepartmentGoals))
	}
	for _, item := range panel.Department {
		lines = append(lines, item.Preview)
		if len(item.LaddersTo) > 0 {
			lines = append(lines, s.Muted.Render("  ↑ "+companyNumbers(item.LaddersTo)))
		}
	}

	return panelStyle(s, width).Render(strings.Join(lines, "\n"))
}

// companyNumbers renders [1 3] as "Company #1, #3".
func companyNumbers(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return "Company " + strings.Join(parts, ", ")
}
