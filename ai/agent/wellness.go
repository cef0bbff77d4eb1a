package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
)

var (
	fitnessKeywords   = []string{"run", "workout", "gym", "exercise", "yoga", "fitness"}
	lateNightKeywords = []string{"drinks", "pub", "late", "party"}
)

// WellnessAgent tracks sleep, workouts, and screen time. Poor sleep quality
// escalates the resulting insight to high priority.
type WellnessAgent struct {
	llm llm.Service
}

// NewWellnessAgent creates the wellness analyzer.
func NewWellnessAgent(service llm.Service) *WellnessAgent {
	return &WellnessAgent{llm: service}
}

func (a *WellnessAgent) ID() string   { return "wellness" }
func (a *WellnessAgent) Name() string { return "Wellness Intelligence" }

func (a *WellnessAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, _ *scenario.Scenario) ([]insight.Insight, error) {
	sleepQuality := snap.String("fitness_data", "sleep", "quality")
	sleepDuration := snap.String("fitness_data", "sleep", "last_night")
	workoutType := snap.String("fitness_data", "last_workout", "type")
	workoutFelt := snap.String("fitness_data", "last_workout", "felt")
	screenTime := snap.String("app_usage", "screen_time")

	fitnessEvents := filterEvents(snap.CalendarEvents, fitnessKeywords...)
	lateEvents := filterEvents(snap.CalendarEvents, lateNightKeywords...)

	var notes []string
	if len(fitnessEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Scheduled workout: %s at %s", fitnessEvents[0].Title, fitnessEvents[0].Time))
		if workoutFelt == "sluggish" {
			notes = append(notes, "Recent workout felt sluggish, recovery may be needed")
		}
	}
	if len(lateEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Late social event scheduled: %s at %s", lateEvents[0].Title, lateEvents[0].Time))
	}
	if len(notes) == 0 {
		notes = append(notes, "No specific wellness concerns from calendar")
	}

	var sb strings.Builder
	sb.WriteString("You are a wellness AI analyzing user health data:\n\n")
	fmt.Fprintf(&sb, "Sleep: %s - Quality: %s\n", orUnknown(sleepDuration), orUnknown(sleepQuality))
	fmt.Fprintf(&sb, "Last Workout: %s - Felt: %s\n", orUnknown(workoutType), orUnknown(workoutFelt))
	fmt.Fprintf(&sb, "Screen Time: %s\n", orUnknown(screenTime))
	if len(fitnessEvents) > 0 {
		fmt.Fprintf(&sb, "\nWellness-Related Calendar Events:\n%s\n", jsonBlock(fitnessEvents))
	}
	sb.WriteString("\nCalendar Context:\n")
	for _, note := range notes {
		fmt.Fprintf(&sb, "- %s\n", note)
	}
	sb.WriteString(`
Task: Based on the ACTUAL calendar and fitness data, provide ONE specific wellness suggestion.
Be SPECIFIC to the calendar events and actual data.

Format:
TITLE: [Engaging wellness tip]
MESSAGE: [Problem from data + Solution, 2 sentences]
ACTION: [Clear action button text]
PRIORITY: [high/medium/low]
REASONING: [Why this will help based on calendar/data]`)

	response, err := a.llm.Complete(ctx, sb.String(), analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("wellness agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "wellness",
		Title:      "Wellness Insight",
		Action:     "Improve Wellness",
		Reasoning:  "Health data analysis",
		Priority:   insight.PriorityMedium,
		Confidence: 0.88,
	})
	if strings.Contains(strings.ToLower(sleepQuality), "poor") {
		result.Priority = insight.PriorityHigh
		slog.Debug("wellness agent: poor sleep quality, priority escalated")
	}
	return []insight.Insight{result}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
