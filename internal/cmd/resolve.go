package cmd

import (
	"fmt"
	"time"

	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/kestrelbot/agentcore/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	resolveGoalType string
	resolveX        float64
	resolveY        float64
	resolveZ        float64
)

// NewResolveCommand creates the 'agentcore resolve' command.
func NewResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Feed a goal intent through the resolver against the demo store",
		Long: `Resolves a goal intent to continue|already_satisfied|created against an
in-memory demo task store, printing the outcome and the resulting task.`,
		RunE: runResolve,
	}

	cmd.Flags().StringVar(&resolveGoalType, "goal-type", "collect_wood", "goal type to resolve")
	cmd.Flags().Float64Var(&resolveX, "x", 0, "bot position x")
	cmd.Flags().Float64Var(&resolveY, "y", 64, "bot position y")
	cmd.Flags().Float64Var(&resolveZ, "z", 0, "bot position z")

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(out)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	input := resolver.ResolveInput{
		GoalType:     resolveGoalType,
		IntentParams: map[string]interface{}{},
		BotPosition:  models.Point3{X: resolveX, Y: resolveY, Z: resolveZ},
		Now:          time.Now(),
	}

	result, err := a.Resolve(input)
	if err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	fmt.Fprintf(out, "outcome: %s\n", result.Outcome)
	if result.Task != nil {
		fmt.Fprintf(out, "task: id=%s type=%s status=%s\n", result.Task.ID, result.Task.Type, result.Task.Status)
		if b := result.Task.Metadata.GoalBinding; b != nil {
			fmt.Fprintf(out, "goal: key=%s instance=%s\n", b.GoalKey, b.GoalInstanceID)
		}
	}
	return nil
}
