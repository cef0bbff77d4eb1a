package scenario

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralab/aura/ai/snapshot"
)

// stubLLM returns a fixed response or error.
type stubLLM struct {
	response string
	err      error
	prompts  []string
}

func (s *stubLLM) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func (s *stubLLM) Warmup(context.Context) {}

func TestLLMDetectorParsesClassification(t *testing.T) {
	stub := &stubLLM{response: `{"scenario_type": "at_work", "confidence": 0.92, "reasoning": "weekday office hours"}`}
	d := NewLLMDetector(stub)

	s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: "2025-03-12T10:00:00Z"})
	require.Equal(t, AtWork, s.Type)
	assert.InDelta(t, 0.92, s.Confidence, 1e-9)
	assert.Equal(t, "llm", s.ContextData["method"])
	assert.Equal(t, "weekday office hours", s.ContextData["reasoning"])
}

func TestLLMDetectorStripsCodeFences(t *testing.T) {
	stub := &stubLLM{response: "```json\n{\"scenario_type\": \"lunch_time\", \"confidence\": 0.8, \"reasoning\": \"midday\"}\n```"}
	d := NewLLMDetector(stub)

	s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: "2025-03-12T12:30:00Z"})
	assert.Equal(t, LunchTime, s.Type)
}

func TestLLMDetectorUnknownTagResolvesToGeneral(t *testing.T) {
	stub := &stubLLM{response: `{"scenario_type": "metaverse_time", "confidence": 0.9, "reasoning": "?"}`}
	d := NewLLMDetector(stub)

	s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: "2025-03-12T10:00:00Z"})
	assert.Equal(t, General, s.Type)
}

func TestLLMDetectorConfidenceClamped(t *testing.T) {
	stub := &stubLLM{response: `{"scenario_type": "at_work", "confidence": 3.7, "reasoning": "sure"}`}
	d := NewLLMDetector(stub)

	s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: "2025-03-12T10:00:00Z"})
	assert.Equal(t, 1.0, s.Confidence)
}

func TestLLMDetectorErrorFallsBackToTimeTable(t *testing.T) {
	stub := &stubLLM{err: errors.New("provider down")}
	d := NewLLMDetector(stub)

	tests := []struct {
		timestamp string
		want      Type
	}{
		{"2025-03-15T11:00:00Z", Weekend},         // Saturday
		{"2025-03-12T08:00:00Z", CommutingToWork}, // weekday 8am
		{"2025-03-12T13:00:00Z", LunchTime},
		{"2025-03-12T23:00:00Z", BeforeSleep},
		{"2025-03-12T15:00:00Z", AtWork},
		{"2025-03-12T05:00:00Z", General},
	}
	for _, tt := range tests {
		s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: tt.timestamp})
		assert.Equal(t, tt.want, s.Type, "timestamp %s", tt.timestamp)
		assert.InDelta(t, fallbackConfidence, s.Confidence, 1e-9)
		assert.Equal(t, "time_fallback", s.ContextData["method"])
	}
}

func TestLLMDetectorGarbageFallsBack(t *testing.T) {
	stub := &stubLLM{response: "I think the user is probably working?"}
	d := NewLLMDetector(stub)

	s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: "2025-03-12T15:00:00Z"})
	assert.Equal(t, AtWork, s.Type)
	assert.Equal(t, "time_fallback", s.ContextData["method"])
}

func TestLLMDetectorManualOverrideSkipsLLM(t *testing.T) {
	stub := &stubLLM{response: `{"scenario_type": "at_work", "confidence": 0.9}`}
	d := NewLLMDetector(stub)

	s := d.Detect(context.Background(), &snapshot.Snapshot{ManualScenario: "weekend"})
	require.Equal(t, Weekend, s.Type)
	assert.True(t, s.Manual)
	assert.Empty(t, stub.prompts, "manual override must not call the LLM")
}
