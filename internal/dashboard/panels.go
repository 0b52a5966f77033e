package dashboard

import (
	"fmt"

	"github.com/kartel/whygo/internal/progress"
	"github.com/kartel/whygo/internal/util"
	"github.com/kartel/whygo/internal/whygo"
)

// GoalCard is one of the person's goals with its computed status.
type GoalCard struct {
	Goal        whygo.IndividualGoal
	Current     progress.Result
	Timeline    [4]progress.QuarterResult
	Connections []Connection
}

// Approved reports whether the goal carries the approval badge.
func (c GoalCard) Approved() bool {
	return c.Goal.IsApproved()
}

// Connection is a ladder-up badge on a goal card.
type Connection struct {
	Kind  whygo.RefKind
	Label string
	// Title is the parent goal's text when the parent is a known company
	// goal.
	Title string
}

// GoalCards evaluates each goal for quarter q.
func GoalCards(goals []whygo.IndividualGoal, company []whygo.CompanyGoal, q whygo.Quarter) []GoalCard {
	titles := make(map[string]string, len(company))
	for _, cg := range company {
		titles[cg.ID] = cg.Goal.Goal
	}

	cards := make([]GoalCard, len(goals))
	for i, g := range goals {
		card := GoalCard{
			Goal:     g,
			Current:  progress.Evaluate(g.Outcomes, q),
			Timeline: progress.Timeline(g.Outcomes),
		}
		for _, ref := range g.Parents {
			card.Connections = append(card.Connections, Connection{
				Kind:  ref.Kind,
				Label: ref.Label(),
				Title: titles[ref.ID],
			})
		}
		cards[i] = card
	}
	return cards
}

// ContextPanel is the goals context sidebar.
type ContextPanel struct {
	Company    []CompanyItem
	Department []DepartmentItem
}

// CompanyItem is a numbered company goal.
type CompanyItem struct {
	Number  int
	Goal    whygo.CompanyGoal
	Preview string
}

// DepartmentItem is a department goal with the numbers of the company goals
// it ladders up to.
type DepartmentItem struct {
	Goal      whygo.DepartmentGoal
	Preview   string
	LaddersTo []int
}

// BuildContext numbers company goals by position and resolves each
// department goal's company parents to those numbers. Parents that are not
// in the company list are skipped.
func BuildContext(company []whygo.CompanyGoal, department []whygo.DepartmentGoal) ContextPanel {
	numbers := whygo.CompanyGoalNumbers(company)

	var panel ContextPanel
	for i, cg := range company {
		panel.Company = append(panel.Company, CompanyItem{
			Number:  i + 1,
			Goal:    cg,
			Preview: util.Preview(cg.Goal.Goal, 60),
		})
	}
	for _, dg := range department {
		item := DepartmentItem{Goal: dg, Preview: util.Preview(dg.Goal.Goal, 50)}
		for _, ref := range dg.Parents.OfKind(whygo.RefCompany) {
			if n, ok := numbers[ref.ID]; ok {
				item.LaddersTo = append(item.LaddersTo, n)
			}
		}
		panel.Department = append(panel.Department, item)
	}
	return panel
}

// ApprovalRow is a goal awaiting approval with its submitter's name.
type ApprovalRow struct {
	Goal      whygo.IndividualGoal
	Submitter string
}

// ApprovalRows resolves submitter names from the team list.
func ApprovalRows(pending []whygo.IndividualGoal, team []whygo.Person) []ApprovalRow {
	names := make(map[string]string, len(team))
	for _, p := range team {
		names[p.ID] = p.Name
	}
	rows := make([]ApprovalRow, len(pending))
	for i, g := range pending {
		name, ok := names[g.PersonID]
		if !ok || name == "" {
			name = UnknownSubmitter
		}
		rows[i] = ApprovalRow{Goal: g, Submitter: name}
	}
	return rows
}

// TeamRow summarizes one direct report.
type TeamRow struct {
	Person       whygo.Person
	PendingGoals int
	// Status pools the outcomes of every goal the report has awaiting
	// approval and evaluates them as one set.
	Status progress.Status
}

// GoalsLabel renders the count of goals awaiting approval, e.g. "2 pending".
// Approved goals are not fetched for reports, so there is no total to show.
func (r TeamRow) GoalsLabel() string {
	return fmt.Sprintf("%d pending", r.PendingGoals)
}

// TeamRows builds a row per report from the team list and the goals
// awaiting the viewer's approval.
func TeamRows(team []whygo.Person, pending []whygo.IndividualGoal, q whygo.Quarter) []TeamRow {
	byPerson := make(map[string][]whygo.Outcome)
	counts := make(map[string]int)
	for _, g := range pending {
		byPerson[g.PersonID] = append(byPerson[g.PersonID], g.Outcomes...)
		counts[g.PersonID]++
	}

	rows := make([]TeamRow, len(team))
	for i, p := range team {
		rows[i] = TeamRow{
			Person:       p,
			PendingGoals: counts[p.ID],
			Status:       progress.Evaluate(byPerson[p.ID], q).Status,
		}
	}
	return rows
}
