package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/retrieval"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
	"github.com/auralab/aura/internal/util"
)

// analyzeMaxTokens bounds the completion length for analysis prompts.
const analyzeMaxTokens = 300

// workCommuteKeywords mark a next event as work-bound travel.
var workCommuteKeywords = []string{"standup", "meeting", "work", "office", "review"}

// ContextAgent reads location, time, and calendar to figure out what the
// user is doing and what they will need next. When the next event looks
// work-bound it switches to a commute-planning prompt and escalates the
// resulting insight to high priority.
type ContextAgent struct {
	llm       llm.Service
	retriever retrieval.Retriever
}

// NewContextAgent creates the context analyzer.
func NewContextAgent(service llm.Service, retriever retrieval.Retriever) *ContextAgent {
	return &ContextAgent{llm: service, retriever: retriever}
}

func (a *ContextAgent) ID() string   { return "context" }
func (a *ContextAgent) Name() string { return "Context Analyzer" }

func (a *ContextAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, _ *scenario.Scenario) ([]insight.Insight, error) {
	next := snap.NextEvent()
	isWorkCommute := next != nil && util.ContainsAny(next.Title, workCommuteKeywords...)

	var historical string
	if next != nil {
		query := fmt.Sprintf("Going to %s for %s", next.Location, next.Title)
		historical = retrieveContext(ctx, a.retriever, query, a.ID(), a.ID())
	}

	var prompt string
	if isWorkCommute {
		prompt = a.commutePrompt(snap, next, historical)
	} else {
		prompt = a.generalPrompt(snap, historical)
	}

	response, err := a.llm.Complete(ctx, prompt, analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("context agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "context",
		Title:      "Context Detected",
		Action:     "View Details",
		Reasoning:  "Analysis of current context",
		Priority:   insight.PriorityMedium,
		Confidence: 0.85,
	})
	if isWorkCommute {
		result.Priority = insight.PriorityHigh
		slog.Debug("context agent: commute detected, priority escalated")
	}
	return []insight.Insight{result}, nil
}

func (a *ContextAgent) commutePrompt(snap *snapshot.Snapshot, next *snapshot.Event, historical string) string {
	var sb strings.Builder
	sb.WriteString("You are a commute planning AI. User is about to travel to work.\n\n")

	home := snap.Map("location", "home", "coordinates")
	work := snap.Map("location", "work", "coordinates")
	fmt.Fprintf(&sb, "HOME: %v, %v\n", home["latitude"], home["longitude"])
	fmt.Fprintf(&sb, "WORK: %v, %v\n", work["latitude"], work["longitude"])
	fmt.Fprintf(&sb, "Next Event: %s at %s - %s\n", next.Title, next.Time, next.Location)
	fmt.Fprintf(&sb, "Current Time: %s\n", snap.Timestamp)
	if historical != "" {
		sb.WriteString("\nSimilar Past Commutes:\n")
		sb.WriteString(historical)
	}

	sb.WriteString("\nTask: Provide travel advice for their commute to work.\n")
	sb.WriteString("Consider route options, estimated travel time, transport conditions, and when to leave.\n")
	if historical != "" {
		sb.WriteString("Consider past patterns from similar commutes above.\n")
	}
	sb.WriteString(`
Format:
TITLE: [Commute planning title]
MESSAGE: [Travel options and timing, 2 sentences max]
ACTION: [Button text like 'View Routes' or 'Check Traffic']
PRIORITY: high
REASONING: [Why this route/timing is best now]`)
	return sb.String()
}

func (a *ContextAgent) generalPrompt(snap *snapshot.Snapshot, historical string) string {
	var sb strings.Builder
	sb.WriteString("You are a context analysis AI. Analyze this situation:\n\n")
	fmt.Fprintf(&sb, "Current Location: %s (%v, %v)\n",
		snap.CurrentLocation.Name, snap.CurrentLocation.Latitude, snap.CurrentLocation.Longitude)
	fmt.Fprintf(&sb, "Current Time: %s\n", snap.Timestamp)
	fmt.Fprintf(&sb, "Upcoming Events:\n%s\n", jsonBlock(snap.UpcomingEvents(3)))

	if history := recentLocations(snap, 5); len(history) > 0 {
		fmt.Fprintf(&sb, "\nRecent Locations:\n%s\n", jsonBlock(history))
	}
	if historical != "" {
		sb.WriteString("\nSimilar Past Situations:\n")
		sb.WriteString(historical)
	}

	sb.WriteString("\nTask: Determine what the user is doing right now and what they'll need soon.\n")
	sb.WriteString("Consider: Are they commuting? At work? At home? Heading somewhere?\n")
	if historical != "" {
		sb.WriteString("Use the similar past situations above to inform your suggestions.\n")
	}
	sb.WriteString(`
Provide ONE actionable insight in this format:
TITLE: [Short engaging title]
MESSAGE: [What's happening and what to suggest, 2 sentences max]
ACTION: [Button text, 2-3 words]
REASONING: [Why this suggestion makes sense]`)
	return sb.String()
}

// recentLocations returns at most n trailing location history points.
func recentLocations(snap *snapshot.Snapshot, n int) []snapshot.LocationPoint {
	history := snap.LocationHistory
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}
