package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
)

var socialEventKeywords = []string{"drinks", "pub", "quiz", "market", "lunch", "dinner", "mates", "friends", "social"}

// SocialAgent surfaces connection opportunities from the calendar and the
// user's contact list.
type SocialAgent struct {
	llm llm.Service
}

// NewSocialAgent creates the social analyzer.
func NewSocialAgent(service llm.Service) *SocialAgent {
	return &SocialAgent{llm: service}
}

func (a *SocialAgent) ID() string   { return "social" }
func (a *SocialAgent) Name() string { return "Social Intelligence" }

func (a *SocialAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, _ *scenario.Scenario) ([]insight.Insight, error) {
	socialEvents := filterEvents(snap.CalendarEvents, socialEventKeywords...)
	fitnessEvents := filterEvents(snap.CalendarEvents, "run", "workout", "gym", "exercise")
	contacts := snap.List("contacts")

	var notes []string
	if len(fitnessEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Upcoming fitness: %s at %s", fitnessEvents[0].Title, fitnessEvents[0].Time))
	}
	if len(socialEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Social event scheduled: %s at %s", socialEvents[0].Title, socialEvents[0].Time))
	}
	if len(notes) == 0 {
		notes = append(notes, "No specific social events scheduled")
	}

	var sb strings.Builder
	sb.WriteString("You are a social intelligence AI.\n\n")
	fmt.Fprintf(&sb, "Calendar Events:\n%s\n", jsonBlock(snap.UpcomingEvents(5)))
	if len(socialEvents) > 0 {
		fmt.Fprintf(&sb, "\nSocial Events Identified:\n%s\n", jsonBlock(socialEvents))
	}
	if len(fitnessEvents) > 0 {
		fmt.Fprintf(&sb, "\nFitness Events (Potential Social):\n%s\n", jsonBlock(fitnessEvents))
	}
	if len(contacts) > 0 {
		fmt.Fprintf(&sb, "\nUser's Contacts:\n%s\n", jsonBlock(contacts))
	}
	sb.WriteString("\nCurrent Context:\n")
	for _, note := range notes {
		fmt.Fprintf(&sb, "- %s\n", note)
	}
	sb.WriteString(`
Task: Based on the ACTUAL calendar events above, suggest ONE relevant social connection or opportunity.
Be SPECIFIC to the calendar events. Don't make generic suggestions.

Format:
TITLE: [Social insight based on calendar]
MESSAGE: [Specific opportunity from calendar + Benefit, 2 sentences]
ACTION: [Concrete action related to calendar event]
PRIORITY: [high/medium/low]
REASONING: [Why this matches the calendar]`)

	response, err := a.llm.Complete(ctx, sb.String(), analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("social agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "social",
		Title:      "Social Opportunity",
		Action:     "Connect",
		Reasoning:  "Social pattern analysis",
		Priority:   insight.PriorityMedium,
		Confidence: 0.82,
	})
	return []insight.Insight{result}, nil
}
