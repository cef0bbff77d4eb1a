package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/retrieval"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
)

var workEventKeywords = []string{"meeting", "review", "work", "standup", "demo"}

// ProductivityAgent suggests work optimizations from the calendar and app
// usage patterns. It stays silent on weekends.
type ProductivityAgent struct {
	llm       llm.Service
	retriever retrieval.Retriever
}

// NewProductivityAgent creates the productivity analyzer.
func NewProductivityAgent(service llm.Service, retriever retrieval.Retriever) *ProductivityAgent {
	return &ProductivityAgent{llm: service, retriever: retriever}
}

func (a *ProductivityAgent) ID() string   { return "productivity" }
func (a *ProductivityAgent) Name() string { return "Productivity Intelligence" }

func (a *ProductivityAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, sc *scenario.Scenario) ([]insight.Insight, error) {
	// No work suggestions on weekends.
	if sc != nil && sc.Type == scenario.Weekend {
		return nil, nil
	}

	workEvents := filterEvents(snap.CalendarEvents, workEventKeywords...)
	profession := snap.String("profession")
	appUsage := snap.Map("app_usage")

	var historical string
	if len(workEvents) > 0 {
		next := workEvents[0]
		query := fmt.Sprintf("%s meeting at %s", next.Title, next.Location)
		historical = retrieveContext(ctx, a.retriever, query, a.ID(), a.ID())
	}

	var sb strings.Builder
	if profession != "" {
		fmt.Fprintf(&sb, "You are a productivity AI for a %s.\n\n", profession)
	} else {
		sb.WriteString("You are a productivity AI.\n\n")
	}
	fmt.Fprintf(&sb, "Today's Work Schedule:\n%s\n", jsonBlock(workEvents))
	if len(appUsage) > 0 {
		fmt.Fprintf(&sb, "\nApp Usage Patterns:\n%s\n", jsonBlock(appUsage))
	}
	if historical != "" {
		sb.WriteString("\nSimilar Past Work Events:\n")
		sb.WriteString(historical)
		sb.WriteString("\nNote: User has attended similar events before. Use patterns to suggest preparation strategies.\n")
	}
	sb.WriteString(`
Task: Provide ONE smart productivity hack based on their schedule and patterns.

Format:
TITLE: [Productivity optimization]
MESSAGE: [Insight + Action, 2 sentences]
ACTION: [Button text]
PRIORITY: [high/medium/low]
REASONING: [Why this will boost productivity]`)

	response, err := a.llm.Complete(ctx, sb.String(), analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("productivity agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "productivity",
		Title:      "Productivity Boost",
		Action:     "Optimize",
		Reasoning:  "Work pattern analysis",
		Priority:   insight.PriorityMedium,
		Confidence: 0.87,
	})
	return []insight.Insight{result}, nil
}
