// Package cmd implements the planning-core CLI as a cobra command tree,
// structured the way the teacher's internal/cmd lays out NewRootCommand
// plus one New*Command per subcommand family.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	configPath  string
	logLevel    string
	telemetryDB string
)

// NewRootCommand creates and returns the root cobra command.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "agentcore",
		Short: "Planning-core demo CLI",
		Long: `agentcore drives the goal-binding, lifecycle, and hierarchical
macro-planning core against an in-memory demo task store.

It does not embed a game client: it is the decision layer a host bot
would call into, exercised here through standalone subcommands.`,
		Version:      Version,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "agentcore.yaml", "path to config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "minimum log level (trace|debug|info|warn|error)")
	root.PersistentFlags().StringVar(&telemetryDB, "telemetry-db", "", "path to a SQLite database for lifecycle-event/cost-update telemetry (empty disables it)")

	root.AddCommand(NewResolveCommand())
	root.AddCommand(NewPlanCommand())
	root.AddCommand(NewReviewCommand())
	root.AddCommand(NewEventsCommand())
	root.AddCommand(NewServeCommand())

	return root
}
