package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kartel/whygo/internal/dashboard"
)

var companyCmd = &cobra.Command{
	Use:   "company",
	Short: "Company-level goals",
}

var companyGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List the 2026 company goals",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runCompanyGoals),
}

var departmentCmd = &cobra.Command{
	Use:   "department",
	Short: "Your department's goals",
}

var departmentGoalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List your department's goals and the company goals they support",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runDepartmentGoals),
}

var contextOutput string

func init() {
	companyCmd.AddCommand(companyGoalsCmd)
	departmentCmd.AddCommand(departmentGoalsCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(departmentCmd)

	for _, c := range []*cobra.Command{companyGoalsCmd, departmentGoalsCmd} {
		c.Flags().StringVarP(&contextOutput, "output", "o", formatTable, "Output format: table, json or yaml")
	}
}

type companyGoalRow struct {
	Number int    `json:"number" yaml:"number"`
	ID     string `json:"id" yaml:"id"`
	Goal   string `json:"goal" yaml:"goal"`
	Why    string `json:"why" yaml:"why"`
}

type departmentGoalRow struct {
	ID             string `json:"id" yaml:"id"`
	Goal           string `json:"goal" yaml:"goal"`
	Why            string `json:"why" yaml:"why"`
	CompanyNumbers []int  `json:"company_goals" yaml:"company_goals"`
}

func runCompanyGoals(r *runtime, cmd *cobra.Command, args []string) error {
	if err := checkFormat(contextOutput); err != nil {
		return err
	}
	ctx, _, err := r.authContext(cmd.Context())
	if err != nil {
		return err
	}
	company, err := r.backend.CompanyGoals(ctx)
	if err != nil {
		return describeAPIError(err)
	}

	panel := dashboard.BuildContext(company, nil)
	out := cmd.OutOrStdout()
	if contextOutput != formatTable {
		rows := make([]companyGoalRow, len(panel.Company))
		for i, item := range panel.Company {
			rows[i] = companyGoalRow{Number: item.Number, ID: item.Goal.ID, Goal: item.Goal.Goal.Goal, Why: item.Goal.Why}
		}
		return writeStructured(out, contextOutput, rows)
	}
	if len(panel.Company) == 0 {
		fmt.Fprintln(out, "No company goals published yet")
		return nil
	}
	for _, item := range panel.Company {
		fmt.Fprintf(out, "%d. %s\n", item.Number, item.Goal.Goal.Goal)
		if item.Goal.Why != "" {
			fmt.Fprintf(out, "   Why: %s\n", item.Goal.Why)
		}
	}
	return nil
}

func runDepartmentGoals(r *runtime, cmd *cobra.Command, args []string) error {
	if err := checkFormat(contextOutput); err != nil {
		return err
	}
	ctx, _, err := r.authContext(cmd.Context())
	if err != nil {
		return err
	}
	department, err := r.backend.MyDepartmentGoals(ctx)
	if err != nil {
		return describeAPIError(err)
	}
	// Company goals only number the ladder-up badges.
	company, err := r.backend.CompanyGoals(ctx)
	if err != nil {
		r.logger.Warn("company goals unavailable for department list", "error", err)
	}

	panel := dashboard.BuildContext(company, department)
	out := cmd.OutOrStdout()
	if contextOutput != formatTable {
		rows := make([]departmentGoalRow, len(panel.Department))
		for i, item := range panel.Department {
			rows[i] = departmentGoalRow{
				ID:             item.Goal.ID,
				Goal:           item.Goal.Goal.Goal,
				Why:            item.Goal.Why,
				CompanyNumbers: item.LaddersTo,
			}
		}
		return writeStructured(out, contextOutput, rows)
	}
	if len(panel.Department) == 0 {
		fmt.Fprintln(out, "Your department has no goals yet")
		return nil
	}
	for _, item := range panel.Department {
		fmt.Fprintf(out, "%s  %s\n", item.Goal.ID, item.Goal.Goal.Goal)
		if len(item.LaddersTo) > 0 {
			labels := make([]string, len(item.LaddersTo))
			for i, n := range item.LaddersTo {
				labels[i] = fmt.Sprintf("Company #%d", n)
			}
			fmt.Fprintf(out, "    ↑ %s\n", strings.Join(labels, ", "))
		}
	}
	return nil
}
