package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
	"github.com/auralab/aura/internal/util"
)

// contentMaxTokens is tighter than the analysis default; playlist picks are
// short.
const contentMaxTokens = 200

// ContentAgent recommends music from the user's own playlists, with a
// prompt variant per scenario. Without playlist data it stays silent.
type ContentAgent struct {
	llm llm.Service
}

// NewContentAgent creates the content curator.
func NewContentAgent(service llm.Service) *ContentAgent {
	return &ContentAgent{llm: service}
}

func (a *ContentAgent) ID() string   { return "content" }
func (a *ContentAgent) Name() string { return "Content Curator" }

func (a *ContentAgent) Analyze(ctx context.Context, snap *snapshot.Snapshot, sc *scenario.Scenario) ([]insight.Insight, error) {
	playlists := snap.List("spotify", "playlists")
	if len(playlists) == 0 {
		return nil, nil
	}

	var scenarioType scenario.Type
	if sc != nil {
		scenarioType = sc.Type
	}

	var sb strings.Builder
	switch scenarioType {
	case scenario.BeforeSleep:
		a.variantHeader(&sb, "sleep music AI. User is winding down for sleep",
			playlists, pickPlaylist(playlists, "night", len(playlists)-1))
		sb.WriteString("Task: Recommend the BEST calming playlist for sleep/relaxation.\n")
	case scenario.Weekend:
		a.variantHeader(&sb, "weekend music AI. User is enjoying the weekend",
			playlists, a.weekendPlaylist(snap, playlists))
		sb.WriteString("Task: Recommend the BEST playlist for this weekend's activities.\n")
	case scenario.CommutingToWork:
		a.variantHeader(&sb, "music AI for commuters. User is traveling to work",
			playlists, pickPlaylist(playlists, "commute", 0))
		sb.WriteString("Task: Recommend an energizing playlist for the commute.\n")
	case scenario.AtWork:
		a.variantHeader(&sb, "music AI for office work. User is at work",
			playlists, pickPlaylist(playlists, "focus", 0))
		sb.WriteString("Task: Recommend the best playlist for concentration.\n")
	case scenario.WorkoutTime:
		a.variantHeader(&sb, "workout music AI. User is about to exercise",
			playlists, pickPlaylist(playlists, "workout", 0))
		sb.WriteString("Task: Recommend a high-energy playlist for the workout.\n")
	case scenario.Shopping:
		a.variantHeader(&sb, "shopping music AI. User is out shopping",
			playlists, pickPlaylist(playlists, "commute", 0))
		sb.WriteString("Task: Recommend an upbeat playlist for shopping.\n")
	default:
		if next := snap.NextEvent(); next != nil && util.ContainsAny(next.Title, "deep work", "feature", "coding", "dev") {
			a.variantHeader(&sb, "music AI for deep work. User needs focus music",
				playlists, pickPlaylist(playlists, "focus", 0))
			sb.WriteString("Task: Recommend a playlist that supports deep concentration.\n")
		} else {
			sb.WriteString("You are a content curation AI.\n\n")
			fmt.Fprintf(&sb, "User's Available Playlists:\n%s\n", jsonBlock(playlists))
			fmt.Fprintf(&sb, "\nCurrent Time: %s\n", snap.Timestamp)
			if next := snap.NextEvent(); next != nil {
				fmt.Fprintf(&sb, "Next Activity: %s\n", next.Title)
			}
			sb.WriteString("\nTask: Pick the BEST playlist from above for this moment.\n")
		}
	}
	sb.WriteString(`Use ONLY tracks from the playlist data above. Mention 2-3 actual track names.

Format:
TITLE: [Exact playlist name from above]
MESSAGE: [Why perfect now. Mention 2-3 actual track names from that playlist]
ACTION: Play [Playlist Name]
REASONING: [Context match]`)

	response, err := a.llm.Complete(ctx, sb.String(), contentMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("content agent completion: %w", err)
	}

	result := insight.Parse(response, insight.Defaults{
		AgentName:  a.Name(),
		Category:   "content",
		Title:      "Perfect Playlist",
		Action:     "Play Now",
		Reasoning:  "Music curation",
		Priority:   insight.PriorityMedium,
		Confidence: 0.84,
	})
	return []insight.Insight{result}, nil
}

func (a *ContentAgent) variantHeader(sb *strings.Builder, persona string, playlists []any, best any) {
	fmt.Fprintf(sb, "You are a %s.\n\n", persona)
	fmt.Fprintf(sb, "User's Playlists:\n%s\n", jsonBlock(playlists))
	if best != nil {
		fmt.Fprintf(sb, "\nBest Match: %s\n\n", jsonBlock(best))
	} else {
		sb.WriteString("\n")
	}
}

// weekendPlaylist matches the playlist to the weekend's calendar: upbeat for
// outdoor plans, atmospheric for social plans, calm otherwise.
func (a *ContentAgent) weekendPlaylist(snap *snapshot.Snapshot, playlists []any) any {
	outdoor := len(filterEvents(snap.CalendarEvents, "park", "run", "walk", "market")) > 0
	social := len(filterEvents(snap.CalendarEvents, "pub", "quiz", "drinks", "friends")) > 0
	switch {
	case outdoor:
		return pickPlaylist(playlists, "commute", 0)
	case social:
		return pickPlaylist(playlists, "late", len(playlists)-1)
	default:
		return pickPlaylist(playlists, "late", len(playlists)-1)
	}
}

// pickPlaylist returns the first playlist whose name contains the keyword,
// falling back to the playlist at the given index.
func pickPlaylist(playlists []any, keyword string, fallbackIdx int) any {
	for _, p := range playlists {
		m, ok := p.(map[string]any)
		if !ok {
			continue
		}
		name, _ := m["name"].(string)
		if strings.Contains(strings.ToLower(name), keyword) {
			return p
		}
	}
	if fallbackIdx >= 0 && fallbackIdx < len(playlists) {
		return playlists[fallbackIdx]
	}
	return nil
}
