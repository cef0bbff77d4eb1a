package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/snapshot"
)

// LLMDetector classifies with a single completion call demanding a strict
// JSON object. Any call or parse failure falls back to a deterministic
// time-of-day table, so detection never fails.
type LLMDetector struct {
	llm llm.Service
}

// NewLLMDetector creates the LLM-backed detector.
func NewLLMDetector(service llm.Service) *LLMDetector {
	return &LLMDetector{llm: service}
}

const classifyMaxTokens = 400

// fallbackConfidence is used by the time-of-day table.
const fallbackConfidence = 0.6

type classification struct {
	ScenarioType string  `json:"scenario_type"`
	Confidence   float64 `json:"confidence"`
	Reasoning    string  `json:"reasoning"`
}

// Detect resolves exactly one scenario. Manual override short-circuits the
// LLM call entirely.
func (d *LLMDetector) Detect(ctx context.Context, snap *snapshot.Snapshot) *Scenario {
	if snap.ManualScenario != "" {
		s := Manual(Type(snap.ManualScenario))
		slog.Info("scenario: manual override", "type", s.Type)
		return s
	}

	prompt := d.buildPrompt(snap)
	response, err := d.llm.Complete(ctx, prompt, classifyMaxTokens)
	if err != nil {
		slog.Warn("scenario: llm classification failed, using time-based fallback", "error", err)
		return timeFallback(snap)
	}

	parsed, err := parseClassification(response)
	if err != nil {
		slog.Warn("scenario: unparseable classification, using time-based fallback", "error", err)
		return timeFallback(snap)
	}

	t := Type(parsed.ScenarioType)
	if !IsKnown(t) {
		slog.Warn("scenario: unknown scenario tag from llm, using general", "tag", parsed.ScenarioType)
		t = General
	}

	s := FromCatalog(t)
	s.Confidence = clamp01(parsed.Confidence)
	s.ContextData["method"] = "llm"
	s.ContextData["reasoning"] = parsed.Reasoning

	slog.Info("scenario: detected",
		"type", s.Type,
		"confidence", s.Confidence,
		"method", "llm",
	)
	return s
}

func (d *LLMDetector) buildPrompt(snap *snapshot.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("Analyze this situation and classify it into ONE scenario.\n\n")
	sb.WriteString("Situation:\n")
	sb.WriteString(describeSnapshot(snap))
	sb.WriteString("\n\nAvailable scenarios:\n")
	for _, def := range Catalog() {
		fmt.Fprintf(&sb, "- %s: %s (agents: %s)\n", def.Type, def.Description, strings.Join(def.Triggers, ", "))
	}
	sb.WriteString("\nRespond with JSON only:\n")
	sb.WriteString(`{"scenario_type": "...", "confidence": 0.0, "reasoning": "why this fits"}`)
	return sb.String()
}

func describeSnapshot(snap *snapshot.Snapshot) string {
	var sb strings.Builder

	if t, ok := snap.Time(); ok {
		dayType := "weekday"
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			dayType = "weekend"
		}
		fmt.Fprintf(&sb, "Time: %s (%s)\n", t.Format("Monday 3:04 PM"), dayType)
	} else {
		sb.WriteString("Time: unknown\n")
	}

	location := snap.CurrentLocation.Name
	if location == "" {
		location = "unknown"
	}
	fmt.Fprintf(&sb, "Location: %s\n", location)

	profession := snap.String("profession")
	if profession == "" {
		profession = "user"
	}
	fmt.Fprintf(&sb, "Profession: %s", profession)

	events := snap.UpcomingEvents(3)
	if len(events) > 0 {
		fmt.Fprintf(&sb, "\nNext: %s at %s", events[0].Title, events[0].Time)
		if len(events) > 1 {
			fmt.Fprintf(&sb, "\nUpcoming: %d events today", len(events))
		}
	}
	return sb.String()
}

// parseClassification parses leniently: code-fence markers are stripped
// before the JSON decode.
func parseClassification(response string) (*classification, error) {
	text := strings.TrimSpace(response)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var parsed classification
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}
	return &parsed, nil
}

// timeFallback is the deterministic rule table used when the LLM path
// fails. It only needs the clock.
func timeFallback(snap *snapshot.Snapshot) *Scenario {
	hour, weekday := snap.Clock()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	var t Type
	switch {
	case isWeekend:
		t = Weekend
	case hour >= 7 && hour <= 9:
		t = CommutingToWork
	case hour >= 12 && hour <= 14:
		t = LunchTime
	case hour >= 22 || hour <= 2:
		t = BeforeSleep
	case hour >= 9 && hour <= 18:
		t = AtWork
	default:
		t = General
	}

	s := FromCatalog(t)
	s.Confidence = fallbackConfidence
	s.ContextData["method"] = "time_fallback"
	slog.Info("scenario: time-based fallback", "type", s.Type)
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
