package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralab/aura/ai/snapshot"
)

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCustomRulesMissingFile(t *testing.T) {
	rules, err := LoadCustomRules(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, rules)

	rules, err = LoadCustomRules("")
	require.NoError(t, err)
	assert.Nil(t, rules)
}

func TestLoadCustomRulesCompilesAndMatches(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: friday-night
    scenario: social_evening
    expression: 'weekday == 5 && hour >= 19'
    confidence: 0.95
`)
	rules, err := LoadCustomRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)

	d := NewRuleDetector(WithCustomRules(rules))
	// 2025-03-14 is a Friday.
	s := d.Detect(context.Background(), &snapshot.Snapshot{Timestamp: "2025-03-14T20:00:00Z"})
	require.Equal(t, SocialEvening, s.Type)
	assert.InDelta(t, 0.95, s.Confidence, 1e-9)
	assert.Equal(t, "custom_rule", s.ContextData["method"])
	assert.Equal(t, "friday-night", s.ContextData["rule"])
}

func TestLoadCustomRulesInvalidExpression(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: broken
    scenario: weekend
    expression: 'hour >>> 3'
`)
	_, err := LoadCustomRules(path)
	assert.Error(t, err)
}

func TestLoadCustomRulesUnknownScenario(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: nope
    scenario: napping_time
    expression: 'hour == 14'
`)
	_, err := LoadCustomRules(path)
	assert.Error(t, err)
}

func TestLoadCustomRulesNonBoolExpression(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: not-a-predicate
    scenario: weekend
    expression: 'hour + 1'
`)
	_, err := LoadCustomRules(path)
	assert.Error(t, err)
}

func TestCustomRuleDefaultConfidence(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: no-confidence
    scenario: weekend
    expression: 'is_weekend'
`)
	rules, err := LoadCustomRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.InDelta(t, 0.8, rules[0].Confidence, 1e-9)
}

func TestCustomRuleReadsEventTitle(t *testing.T) {
	path := writeRuleFile(t, `
rules:
  - name: gym-class
    scenario: workout_time
    expression: 'next_event.contains("spin class")'
    confidence: 0.9
`)
	rules, err := LoadCustomRules(path)
	require.NoError(t, err)

	d := NewRuleDetector(WithCustomRules(rules))
	s := d.Detect(context.Background(), &snapshot.Snapshot{
		Timestamp:      "2025-03-12T17:00:00Z",
		CalendarEvents: []snapshot.Event{{Title: "Spin Class", Time: "18:00"}},
	})
	assert.Equal(t, WorkoutTime, s.Type)
}
