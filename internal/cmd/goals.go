package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/draft"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/progress"
	"github.com/kartel/whygo/internal/util"
	"github.com/kartel/whygo/internal/whygo"
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List and create your individual goals",
}

var goalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your goals with their quarterly status",
	Long: `List your goals with their status for a quarter. The quarter defaults to
dashboard.quarter.

Examples:
  whygo goals list
  whygo goals list --quarter q2 -o yaml
  whygo goals list --match '*pipeline*'`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runGoalsList),
}

var goalsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a goal from a YAML draft",
	Long: `Create a goal from a YAML draft. The draft is validated locally first;
nothing is sent when it has problems. Use 'whygo goals template' for a
starting file.

Examples:
  whygo goals create --file goal.yaml --dry-run
  whygo goals create --file goal.yaml`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runGoalsCreate),
}

var goalsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a starting YAML draft",
	Args:  cobra.NoArgs,
	RunE:  runGoalsTemplate,
}

var statusCmd = &cobra.Command{
	Use:   "status <goal-id>",
	Short: "Show one of your goals quarter by quarter",
	Args:  cobra.ExactArgs(1),
	RunE:  withRuntime(runStatus),
}

var (
	goalsQuarter  string
	goalsMatch    string
	goalsOutput   string
	goalsFile     string
	goalsDryRun   bool
	goalsParent   string
	statusQuarter string
)

func init() {
	goalsCmd.AddCommand(goalsListCmd)
	goalsCmd.AddCommand(goalsCreateCmd)
	goalsCmd.AddCommand(goalsTemplateCmd)
	rootCmd.AddCommand(goalsCmd)
	rootCmd.AddCommand(statusCmd)

	goalsListCmd.Flags().StringVar(&goalsQuarter, "quarter", "", "Quarter to evaluate (q1-q4, default: dashboard.quarter)")
	goalsListCmd.Flags().StringVar(&goalsMatch, "match", "", "Only goals whose text matches this glob (case-insensitive)")
	goalsListCmd.Flags().StringVarP(&goalsOutput, "output", "o", formatTable, "Output format: table, json or yaml")

	goalsCreateCmd.Flags().StringVarP(&goalsFile, "file", "f", "", "YAML draft to submit")
	goalsCreateCmd.Flags().BoolVar(&goalsDryRun, "dry-run", false, "Validate and print the request without sending it")
	_ = goalsCreateCmd.MarkFlagRequired("file")

	goalsTemplateCmd.Flags().StringVar(&goalsParent, "parent", "", "Department goal ID to ladder up to")

	statusCmd.Flags().StringVar(&statusQuarter, "quarter", "", "Quarter whose outcome detail is shown (default: dashboard.quarter)")
}

// goalRow is the structured form of a listed goal.
type goalRow struct {
	ID        string          `json:"id" yaml:"id"`
	Goal      string          `json:"goal" yaml:"goal"`
	Why       string          `json:"why" yaml:"why"`
	Approval  string          `json:"approval" yaml:"approval"`
	Quarter   whygo.Quarter   `json:"quarter" yaml:"quarter"`
	Progress  progress.Result `json:"progress" yaml:"progress"`
	LaddersTo []string        `json:"ladders_to" yaml:"ladders_to"`
	Outcomes  int             `json:"outcomes" yaml:"outcomes"`
}

func runGoalsList(r *runtime, cmd *cobra.Command, args []string) error {
	if err := checkFormat(goalsOutput); err != nil {
		return err
	}
	q, err := resolveQuarter(r, goalsQuarter)
	if err != nil {
		return err
	}
	var match glob.Glob
	if goalsMatch != "" {
		match, err = glob.Compile(strings.ToLower(goalsMatch))
		if err != nil {
			return fmt.Errorf("%w: invalid --match pattern: %v", errors.ErrInvalidInput, err)
		}
	}

	ctx, _, err := r.authContext(cmd.Context())
	if err != nil {
		return err
	}
	goals, err := r.backend.MyGoals(ctx)
	if err != nil {
		return describeAPIError(err)
	}
	// Company goal titles only enrich the badges.
	company, err := r.backend.CompanyGoals(ctx)
	if err != nil {
		r.logger.Warn("company goals unavailable for goal list", "error", err)
	}

	var rows []goalRow
	for _, card := range dashboard.GoalCards(goals, company, q) {
		if match != nil && !match.Match(strings.ToLower(card.Goal.Goal.Goal)) {
			continue
		}
		row := goalRow{
			ID:       card.Goal.ID,
			Goal:     card.Goal.Goal.Goal,
			Why:      card.Goal.Why,
			Approval: card.Goal.StatusLabel(),
			Quarter:  q,
			Progress: card.Current,
			Outcomes: len(card.Goal.Outcomes),
		}
		for _, c := range card.Connections {
			row.LaddersTo = append(row.LaddersTo, c.Label)
		}
		rows = append(rows, row)
	}

	out := cmd.OutOrStdout()
	if goalsOutput != formatTable {
		if rows == nil {
			rows = []goalRow{}
		}
		return writeStructured(out, goalsOutput, rows)
	}

	if len(rows) == 0 {
		if match != nil {
			fmt.Fprintf(out, "No goals match %q\n", goalsMatch)
		} else {
			fmt.Fprintln(out, "No goals yet. Run 'whygo onboard --step goals' to add one.")
		}
		return nil
	}
	fmt.Fprintf(out, "%-10s %-16s %5s  %-17s %s\n", "ID", q.Label()+" STATUS", "PCT", "APPROVAL", "GOAL")
	for _, row := range rows {
		fmt.Fprintf(out, "%-10s %-16s %5s  %-17s %s\n",
			row.ID,
			row.Progress.Status.Label(),
			percentLabel(row.Progress),
			row.Approval,
			util.TruncateString(row.Goal, 60))
	}
	fmt.Fprintf(out, "\n%s of %d\n", util.Plural(len(goals), "goal"), whygo.MaxGoalsPerPerson)
	return nil
}

func runGoalsCreate(r *runtime, cmd *cobra.Command, args []string) error {
	ctx, sess, err := r.authContext(cmd.Context())
	if err != nil {
		return err
	}
	d, err := draft.Load(goalsFile, sess.PersonID)
	if err != nil {
		return err
	}

	req, err := d.ToRequest()
	if err != nil {
		var list errors.ValidationErrors
		if errors.As(err, &list) {
			errOut := cmd.ErrOrStderr()
			fmt.Fprintln(errOut, "The draft has problems:")
			for _, fe := range list {
				fmt.Fprintf(errOut, "  %s\n", fe)
			}
			return fmt.Errorf("%w: %s in %s", errors.ErrInvalidInput, util.Plural(len(list), "problem"), goalsFile)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if goalsDryRun {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(req)
	}

	goal, err := r.backend.CreateGoal(ctx, req)
	if err != nil {
		return describeAPIError(err)
	}
	fmt.Fprintf(out, "Created goal %s (%s)\n", goal.ID, goal.StatusLabel())
	return nil
}

func runGoalsTemplate(cmd *cobra.Command, args []string) error {
	if goalsParent != "" && whygo.ParseParentRef(goalsParent).Kind != whygo.RefDepartment {
		return fmt.Errorf("%w: --parent must be a department goal ID (dg_...)", errors.ErrInvalidInput)
	}
	_, err := cmd.OutOrStdout().Write(draft.Template(goalsParent))
	return err
}

func runStatus(r *runtime, cmd *cobra.Command, args []string) error {
	q, err := resolveQuarter(r, statusQuarter)
	if err != nil {
		return err
	}
	ctx, _, err := r.authContext(cmd.Context())
	if err != nil {
		return err
	}
	goals, err := r.backend.MyGoals(ctx)
	if err != nil {
		return describeAPIError(err)
	}

	var goal *whygo.IndividualGoal
	for i := range goals {
		if goals[i].ID == args[0] {
			goal = &goals[i]
			break
		}
	}
	if goal == nil {
		return errors.NewNotFoundError("goal", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s\n", goal.ID, goal.Goal.Goal)
	if goal.Why != "" {
		fmt.Fprintf(out, "Why: %s\n", goal.Why)
	}
	fmt.Fprintf(out, "Approval: %s\n", goal.StatusLabel())
	for _, ref := range goal.Parents {
		fmt.Fprintf(out, "Ladders up to: %s\n", ref.Label())
	}

	fmt.Fprintln(out, "\nTimeline:")
	for _, qr := range progress.Timeline(goal.Outcomes) {
		marker := " "
		if qr.Quarter == q {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %s  %-16s %5s\n", marker, qr.Quarter.Label(), qr.Status.Label(), percentLabel(qr.Result))
	}

	fmt.Fprintf(out, "\nOutcomes (%s):\n", q.Label())
	for _, o := range goal.Outcomes {
		res := progress.EvaluateOutcome(o, q)
		fmt.Fprintf(out, "  - %s [%s]\n", o.Description, o.MetricType.Label())
		fmt.Fprintf(out, "    annual %s, target %s, actual %s, %s\n",
			amountLabel(o.TargetAnnual), amountLabel(o.Target(q)), amountLabel(o.Actual(q)), res.Status.Label())
	}
	return nil
}
