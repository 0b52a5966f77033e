package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kartel/whygo/internal/dashboard"
	"github.com/kartel/whygo/internal/errors"
	"github.com/kartel/whygo/internal/progress"
	"github.com/kartel/whygo/internal/util"
	"github.com/kartel/whygo/internal/whygo"
)

var approvalsCmd = &cobra.Command{
	Use:   "approvals",
	Short: "Review goals awaiting your approval",
	Long: `Review goals your team submitted for approval. Available to managers,
department heads and executives.`,
}

var approvalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List goals awaiting your approval",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runApprovalsList),
}

var approvalsApproveCmd = &cobra.Command{
	Use:   "approve <goal-id>",
	Short: "Approve a pending goal",
	Args:  cobra.ExactArgs(1),
	RunE:  withRuntime(runApprovalsApprove),
}

var (
	approvalsOutput  string
	approvalsQuarter string
)

func init() {
	approvalsCmd.AddCommand(approvalsListCmd)
	approvalsCmd.AddCommand(approvalsApproveCmd)
	rootCmd.AddCommand(approvalsCmd)

	approvalsListCmd.Flags().StringVarP(&approvalsOutput, "output", "o", formatTable, "Output format: table, json or yaml")
	approvalsListCmd.Flags().StringVar(&approvalsQuarter, "quarter", "", "Quarter to evaluate (q1-q4, default: dashboard.quarter)")
}

// approvalRow is the structured form of a pending approval.
type approvalRow struct {
	ID          string          `json:"id" yaml:"id"`
	SubmitterID string          `json:"submitter_id" yaml:"submitter_id"`
	Submitter   string          `json:"submitter" yaml:"submitter"`
	Goal        string          `json:"goal" yaml:"goal"`
	Quarter     whygo.Quarter   `json:"quarter" yaml:"quarter"`
	Progress    progress.Result `json:"progress" yaml:"progress"`
}

// approverContext returns an authenticated context for a person whose level
// can approve goals.
func (r *runtime) approverContext(ctx context.Context) (context.Context, error) {
	ctx, sess, err := r.authContext(ctx)
	if err != nil {
		return nil, err
	}
	if !sess.Capabilities().CanApproveGoals {
		return nil, fmt.Errorf("%w: %s cannot approve goals", errors.ErrNotPermitted, sess.PersonLevel.Label())
	}
	return ctx, nil
}

func runApprovalsList(r *runtime, cmd *cobra.Command, args []string) error {
	if err := checkFormat(approvalsOutput); err != nil {
		return err
	}
	q, err := resolveQuarter(r, approvalsQuarter)
	if err != nil {
		return err
	}
	ctx, err := r.approverContext(cmd.Context())
	if err != nil {
		return err
	}

	pending, err := r.backend.PendingApprovals(ctx)
	if err != nil {
		return describeAPIError(err)
	}
	// Without the team, submitters fall back to a generic label.
	team, err := r.backend.MyTeam(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrUnauthenticated) {
			return describeAPIError(err)
		}
		r.logger.Warn("team unavailable for approvals", "error", err)
	}

	rows := make([]approvalRow, 0, len(pending))
	for _, ar := range dashboard.ApprovalRows(pending, team) {
		rows = append(rows, approvalRow{
			ID:          ar.Goal.ID,
			SubmitterID: ar.Goal.PersonID,
			Submitter:   ar.Submitter,
			Goal:        ar.Goal.Goal.Goal,
			Quarter:     q,
			Progress:    progress.Evaluate(ar.Goal.Outcomes, q),
		})
	}

	out := cmd.OutOrStdout()
	if approvalsOutput != formatTable {
		return writeStructured(out, approvalsOutput, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "No goals awaiting approval")
		return nil
	}
	fmt.Fprintf(out, "%-10s %-20s %-16s %s\n", "ID", "SUBMITTER", q.Label()+" STATUS", "GOAL")
	for _, row := range rows {
		fmt.Fprintf(out, "%-10s %-20s %-16s %s\n",
			row.ID,
			util.TruncateString(row.Submitter, 20),
			row.Progress.Status.Label(),
			util.TruncateString(row.Goal, 60))
	}
	return nil
}

func runApprovalsApprove(r *runtime, cmd *cobra.Command, args []string) error {
	ctx, err := r.approverContext(cmd.Context())
	if err != nil {
		return err
	}
	if err := r.backend.ApproveGoal(ctx, args[0]); err != nil {
		return describeAPIError(err)
	}
	r.logger.Info("goal approved", "goal_id", args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Goal %s approved\n", args[0])
	return nil
}
