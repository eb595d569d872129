package cmd

import (
	"context"
	"fmt"

	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/spf13/cobra"
)

var (
	eventsType   string
	eventsTaskID string
	eventsFromDB bool
)

// NewEventsCommand creates the 'agentcore events' command.
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Dump the bounded lifecycle-event ring",
		Long: `Prints retained lifecycle events, optionally filtered by type or task id.

--from-db reads from the SQLite telemetry sink (--telemetry-db) instead
of the in-process ring, for events that aged out of the ring already.`,
		RunE: runEvents,
	}

	cmd.Flags().StringVar(&eventsType, "type", "", "filter by lifecycle event type")
	cmd.Flags().StringVar(&eventsTaskID, "task", "", "filter by task id")
	cmd.Flags().BoolVar(&eventsFromDB, "from-db", false, "read from the SQLite telemetry sink instead of the in-process ring")

	return cmd
}

func runEvents(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(out)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	var events []models.LifecycleEvent
	switch {
	case eventsFromDB:
		if a.Telemetry == nil {
			return fmt.Errorf("--from-db requires --telemetry-db to point at a sink")
		}
		defer a.Telemetry.Close()
		if eventsType != "" {
			events, err = a.Telemetry.EventsByType(context.Background(), eventsType)
		} else {
			events, err = a.Telemetry.AllEvents(context.Background())
		}
		if err != nil {
			return fmt.Errorf("read telemetry events: %w", err)
		}
		if eventsTaskID != "" {
			events = filterByTask(events, eventsTaskID)
		}
	case eventsType != "":
		events = a.Events.ByType(models.LifecycleEventType(eventsType))
	case eventsTaskID != "":
		events = a.Events.ByTask(eventsTaskID)
	default:
		events = a.Events.All()
	}

	for _, e := range events {
		fmt.Fprintf(out, "%s [%s] task=%s fields=%v\n", e.Timestamp.Format("2006-01-02T15:04:05"), e.Type, e.TaskID, e.Fields)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "no events recorded")
	}
	return nil
}

// filterByTask narrows an already-fetched event slice to one task id,
// mirroring events.Collector.ByTask for the telemetry-sink path.
func filterByTask(events []models.LifecycleEvent, taskID string) []models.LifecycleEvent {
	out := make([]models.LifecycleEvent, 0, len(events))
	for _, e := range events {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}
