package cmd

import (
	"fmt"
	"time"

	"github.com/kestrelbot/agentcore/internal/filelock"
	"github.com/spf13/cobra"
)

var reviewLock bool

// NewReviewCommand creates the 'agentcore review' command.
func NewReviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run one periodic review pass over the demo store",
		Long: `Runs one periodic-review pass: releases stale holds (bounded per
cycle), corrects goal/task status drift, and prints a summary.`,
		RunE: runReview,
	}

	cmd.Flags().BoolVar(&reviewLock, "lock", false, "guard the run with a .agentcore.lock file")

	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if reviewLock {
		lock := filelock.NewFileLock(".agentcore.lock")
		if err := lock.Lock(); err != nil {
			return fmt.Errorf("acquire review lock: %w", err)
		}
		defer lock.Unlock()
	}

	a, err := newApp(out)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	result := a.RunReview(time.Now())

	fmt.Fprintf(out, "tasks scanned: %d\n", result.TasksScanned)
	fmt.Fprintf(out, "stale holds: %d\n", len(result.StaleHolds))
	for _, h := range result.StaleHolds {
		fmt.Fprintf(out, "  task=%s reason=%s manual_pause=%t\n", h.TaskID, h.Reason, h.IsManualPause)
	}
	fmt.Fprintf(out, "drift reports: %d\n", len(result.DriftReports))
	for _, d := range result.DriftReports {
		fmt.Fprintf(out, "  task=%s goal=%s mapped=%s actual=%s\n", d.TaskID, d.GoalID, d.TaskMapped, d.ActualStatus)
	}
	fmt.Fprintf(out, "effects applied: %d\n", len(result.Effects))
	return nil
}
