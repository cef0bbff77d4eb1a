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

var (
	shoppingEventKeywords = []string{"market", "shopping", "store", "mall", "buy"}
	diningEventKeywords   = []string{"lunch", "sandwich", "food", "grab", "eat"}
	spendingEventKeywords = []string{"drinks", "pub", "bar", "dinner", "restaurant"}
)

// FinancialAgent looks for money-saving opportunities in upcoming events
// and recent purchases. Shopping scenarios switch it to a deal-hunting
// prompt variant.
type FinancialAgent struct {
	llm llm.Service
}

// NewFinancialAgent creates the financial analyzer.
func NewFinancialAgent(service llm.Service) *FinancialAgent {
	return &FinancialAgent{llm: service}
}

func (a *FinancialAgent) ID() string   { return "financial" }
func (a *FinancialAgent) Name() string { return "Financial Intelligence" }

func (a *FinancialAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, sc *scenario.Scenario) ([]insight.Insight, error) {
	purchases := snap.List("purchases")
	posts := snap.List("social_media", "twitter", "recent_posts")

	shoppingEvents := filterEvents(snap.CalendarEvents, shoppingEventKeywords...)
	diningEvents := filterEvents(snap.CalendarEvents, diningEventKeywords...)
	spendingEvents := filterEvents(snap.CalendarEvents, spendingEventKeywords...)

	var notes []string
	if len(shoppingEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Shopping planned: %s at %s", shoppingEvents[0].Title, shoppingEvents[0].Location))
	}
	if len(diningEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Lunch scheduled: %s at %s", diningEvents[0].Title, diningEvents[0].Location))
	}
	if len(spendingEvents) > 0 {
		notes = append(notes, fmt.Sprintf("Social event: %s at %s", spendingEvents[0].Title, spendingEvents[0].Location))
	}

	shoppingMode := (sc != nil && sc.Type == scenario.Shopping) || len(shoppingEvents) > 0

	var sb strings.Builder
	if shoppingMode {
		sb.WriteString("You are a shopping assistant AI helping with purchases.\n\n")
	} else {
		sb.WriteString("You are a financial intelligence AI.\n\n")
	}
	if len(purchases) > 0 {
		fmt.Fprintf(&sb, "Recent Purchases:\n%s\n", jsonBlock(purchases))
	}
	if shoppingMode && len(shoppingEvents) > 0 {
		fmt.Fprintf(&sb, "\nShopping Events from Calendar:\n%s\n", jsonBlock(shoppingEvents))
	} else {
		fmt.Fprintf(&sb, "\nCalendar Events (Financial Impact):\n%s\n", jsonBlock(snap.UpcomingEvents(5)))
	}
	if len(posts) > 0 {
		fmt.Fprintf(&sb, "\nUser's Interests (from social media):\n%s\n", jsonBlock(posts))
	}
	if len(notes) > 0 {
		sb.WriteString("\nFinancial Context:\n")
		for _, note := range notes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}
	if shoppingMode {
		sb.WriteString(`
Task: Based on the ACTUAL calendar events, provide smart shopping advice: budget, what to buy, price comparisons, deal timing.

Format:
TITLE: [Shopping tip or deal alert specific to calendar]
MESSAGE: [Specific advice for the scheduled event, 2 sentences max]
ACTION: [What to do - e.g., "Check Deals", "Compare Prices"]
PRIORITY: medium
REASONING: [Why this saves money based on calendar]`)
	} else {
		sb.WriteString(`
Task: Based on ACTUAL calendar events, suggest ONE specific money-saving opportunity.
Use actual locations and events from the calendar above.

Format:
TITLE: [Financial insight specific to calendar]
MESSAGE: [Problem from calendar + Cheaper Alternative, 2 sentences]
ACTION: [Cost-saving action]
PRIORITY: [high/medium/low]
REASONING: [Money saved based on calendar]`)
	}

	response, err := a.llm.Complete(ctx, sb.String(), analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("financial agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "financial",
		Title:      "Cost Optimization",
		Action:     "Save Money",
		Reasoning:  "Spending pattern analysis",
		Priority:   insight.PriorityLow,
		Confidence: 0.81,
	})
	return []insight.Insight{result}, nil
}
