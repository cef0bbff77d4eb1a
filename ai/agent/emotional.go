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

// EmotionalAgent reads sentiment from recent social media posts and
// suggests ways to improve the user's emotional state.
type EmotionalAgent struct {
	llm llm.Service
}

// NewEmotionalAgent creates the emotional analyzer.
func NewEmotionalAgent(service llm.Service) *EmotionalAgent {
	return &EmotionalAgent{llm: service}
}

func (a *EmotionalAgent) ID() string   { return "emotional" }
func (a *EmotionalAgent) Name() string { return "Emotional Intelligence" }

func (a *EmotionalAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, _ *scenario.Scenario) ([]insight.Insight, error) {
	posts := snap.List("social_media", "twitter", "recent_posts")

	var sb strings.Builder
	sb.WriteString("You are an emotional intelligence AI analyzing user sentiment.\n\n")
	if len(posts) > 0 {
		fmt.Fprintf(&sb, "Recent Social Media Posts:\n%s\n", jsonBlock(posts))
	} else {
		sb.WriteString("Recent Social Media Posts: none available\n")
	}
	sb.WriteString(`
Task: Read the sentiment of the posts above and provide ONE empathetic suggestion to improve their emotional state.

Format:
TITLE: [Empathetic insight]
MESSAGE: [Recognition + Suggestion, 2 sentences]
ACTION: [Stress relief action]
PRIORITY: [high/medium/low]
REASONING: [Emotional benefit]`)

	response, err := a.llm.Complete(ctx, sb.String(), analyzeMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("emotional agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "emotional",
		Title:      "Emotional Insight",
		Action:     "Feel Better",
		Reasoning:  "Sentiment analysis",
		Priority:   insight.PriorityMedium,
		Confidence: 0.86,
	})
	return []insight.Insight{result}, nil
}
