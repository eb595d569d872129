package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/kestrelbot/agentcore/internal/coreerrors"
	"github.com/kestrelbot/agentcore/internal/filelock"
	"github.com/kestrelbot/agentcore/internal/macro"
	"github.com/kestrelbot/agentcore/internal/models"
	"github.com/kestrelbot/agentcore/internal/planner"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

var (
	planStart   string
	planGoal    string
	planGoalID  string
	planFormat  string
	planExecute bool
	planOut     string
)

// NewPlanCommand creates the 'agentcore plan' command.
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the macro planner between two context ids",
		Long: `Runs the hierarchical macro planner over the demo context graph and
renders the resulting plan as a Markdown report, plain text, HTML, or YAML.`,
		RunE: runPlan,
	}

	cmd.Flags().StringVar(&planStart, "start", "base", "starting abstract context id")
	cmd.Flags().StringVar(&planGoal, "goal", "deep_mine", "goal abstract context id")
	cmd.Flags().StringVar(&planGoalID, "goal-id", "demo-goal", "goal id for the plan digest")
	cmd.Flags().StringVar(&planFormat, "format", "markdown", "output format: markdown|html|text|yaml")
	cmd.Flags().BoolVar(&planExecute, "execute", false, "walk every edge of the plan through the demo solver and feed outcomes back into learned costs")
	cmd.Flags().StringVar(&planOut, "out", "", "also persist the rendered plan to this path via an atomic, lock-guarded write")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(out)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}

	decision := macro.PlanMacroPath(a.Macro, planStart, planGoal, planGoalID)

	var rendered string
	switch planFormat {
	case "yaml":
		enc, err := yaml.Marshal(planYAML(planStart, planGoal, decision))
		if err != nil {
			return fmt.Errorf("render plan yaml: %w", err)
		}
		rendered = string(enc)
	case "html":
		report := renderPlanMarkdown(planStart, planGoal, decision)
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(report), &buf); err != nil {
			return fmt.Errorf("render plan html: %w", err)
		}
		rendered = buf.String()
	case "text":
		rendered = stripMarkdown(renderPlanMarkdown(planStart, planGoal, decision))
	default:
		rendered = renderPlanMarkdown(planStart, planGoal, decision)
	}
	fmt.Fprint(out, rendered)

	if planOut != "" {
		if err := filelock.LockAndWrite(planOut, []byte(rendered)); err != nil {
			return fmt.Errorf("persist plan to %s: %w", planOut, err)
		}
	}

	if planExecute {
		req := &planner.TaskRequirement{Kind: planner.KindNavigate, Destination: planGoal}
		_, updates := a.ExecuteHierarchicalGoal(req, planner.SolveInput{}, planStart, planGoal, planGoalID, "cli-plan", time.Now())
		for _, u := range updates {
			fmt.Fprintf(out, "\nexecuted %s: cost %.2f -> %.2f (failures=%d)\n", u.EdgeID, u.PreviousCost, u.NewCost, u.ConsecutiveFailures)
		}
	}
	return nil
}

// planYAMLEdge is a flattened, yaml-friendly projection of a macro edge.
type planYAMLEdge struct {
	From string  `yaml:"from"`
	To   string  `yaml:"to"`
	Cost float64 `yaml:"cost"`
}

// planYAMLDoc is the root document agentcore plan --format yaml emits.
type planYAMLDoc struct {
	Start     string         `yaml:"start"`
	Goal      string         `yaml:"goal"`
	Digest    string         `yaml:"digest,omitempty"`
	TotalCost float64        `yaml:"total_cost,omitempty"`
	Edges     []planYAMLEdge `yaml:"edges,omitempty"`
	Blocked   string         `yaml:"blocked,omitempty"`
	Error     string         `yaml:"error,omitempty"`
	Detail    string         `yaml:"detail,omitempty"`
}

func planYAML(start, goal string, decision coreerrors.PlanningDecision[*models.MacroPlan]) planYAMLDoc {
	doc := planYAMLDoc{Start: start, Goal: goal}

	if plan, ok := decision.Value(); ok {
		doc.Digest = plan.Digest
		doc.TotalCost = plan.TotalCost
		doc.Edges = make([]planYAMLEdge, 0, len(plan.Edges))
		for _, e := range plan.Edges {
			doc.Edges = append(doc.Edges, planYAMLEdge{From: e.From, To: e.To, Cost: e.LearnedCost})
		}
		return doc
	}

	if blocked, ok := decision.IsBlocked(); ok {
		doc.Blocked = string(blocked.Reason)
		doc.Detail = blocked.Detail
		return doc
	}

	if planErr, ok := decision.IsError(); ok {
		doc.Error = string(planErr.Reason)
		doc.Detail = planErr.Detail
	}
	return doc
}

func renderPlanMarkdown(start, goal string, decision coreerrors.PlanningDecision[*models.MacroPlan]) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Macro Plan: %s -> %s\n\n", start, goal)

	if plan, ok := decision.Value(); ok {
		fmt.Fprintf(&b, "**Digest:** `%s`\n\n**Total cost:** %.2f\n\n## Edges\n\n", plan.Digest, plan.TotalCost)
		if len(plan.Edges) == 0 {
			b.WriteString("_start and goal are the same context; no edges required._\n")
		}
		for i, e := range plan.Edges {
			fmt.Fprintf(&b, "%d. %s -> %s (cost %.2f)\n", i+1, e.From, e.To, e.LearnedCost)
		}
		return b.String()
	}

	if blocked, ok := decision.IsBlocked(); ok {
		fmt.Fprintf(&b, "**Blocked:** %s\n\n%s\n", blocked.Reason, blocked.Detail)
		return b.String()
	}

	if planErr, ok := decision.IsError(); ok {
		fmt.Fprintf(&b, "**Error:** %s\n\n%s\n", planErr.Reason, planErr.Detail)
	}
	return b.String()
}

// stripMarkdown renders a plain-text approximation by dropping the
// lightweight markdown punctuation this report uses.
func stripMarkdown(md string) string {
	replacer := strings.NewReplacer("# ", "", "## ", "", "**", "", "`", "", "_", "")
	return replacer.Replace(md)
}
