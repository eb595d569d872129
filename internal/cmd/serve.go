package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kestrelbot/agentcore/internal/threat"
	"github.com/spf13/cobra"
)

var serveInterval time.Duration

// NewServeCommand creates the 'agentcore serve' command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-process demo loop until interrupted",
		Long: `Runs an activation-reactor tick and a threat-bridge evaluation on a
fixed interval, logging each pass, until interrupted (SIGINT/SIGTERM).`,
		RunE: runServe,
	}

	cmd.Flags().DurationVar(&serveInterval, "interval", 5*time.Second, "tick interval")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(out)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(serveInterval)
	defer ticker.Stop()

	a.Logger.Info("serve loop started")

	for {
		select {
		case <-sigCh:
			a.Logger.Info("serve loop stopping")
			return nil
		case now := <-ticker.C:
			result := a.TickActivation(now, func(taskID string) float64 { return 0.5 })
			a.Logger.Infof("activation tick: considered=%d activated=%d budgetExhausted=%t",
				len(result.Considered), len(result.Activated), result.BudgetExhausted)

			threatSignal := threat.FailClosedSignal(now)
			a.EvaluateThreat(now, threatSignal, threat.LevelHigh)
		}
	}
}
