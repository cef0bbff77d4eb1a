package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralab/aura/ai/agent"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/preference"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
)

// stubAgent returns fixed insights, an error, or panics.
type stubAgent struct {
	id       string
	insights []insight.Insight
	err      error
	panics   bool
}

func (a *stubAgent) ID() string   { return a.id }
func (a *stubAgent) Name() string { return "Stub " + a.id }

func (a *stubAgent) Analyze(context.Context, *snapshot.Snapshot, *scenario.Scenario) ([]insight.Insight, error) {
	if a.panics {
		panic("boom")
	}
	return a.insights, a.err
}

// stubDetector returns a fixed scenario.
type stubDetector struct {
	scenario *scenario.Scenario
}

func (d *stubDetector) Detect(context.Context, *snapshot.Snapshot) *scenario.Scenario {
	return d.scenario
}

func mkInsight(agentID string, priority insight.Priority, confidence float64) insight.Insight {
	return insight.Insight{
		AgentName:  "Stub " + agentID,
		Title:      "t",
		Message:    "m",
		Category:   agentID,
		Priority:   priority,
		Confidence: confidence,
	}
}

func triggersScenario(triggers ...string) *scenario.Scenario {
	return &scenario.Scenario{
		Type:        scenario.General,
		Confidence:  0.5,
		Triggers:    triggers,
		ContextData: map[string]any{},
	}
}

func TestOrchestrateAgentFailureIsolation(t *testing.T) {
	registry := agent.NewRegistryOf(
		&stubAgent{id: "good", insights: []insight.Insight{mkInsight("good", insight.PriorityMedium, 0.8)}},
		&stubAgent{id: "bad", err: errors.New("llm exploded")},
		&stubAgent{id: "panicky", panics: true},
		&stubAgent{id: "fine", insights: []insight.Insight{mkInsight("fine", insight.PriorityLow, 0.7)}},
	)
	o := New(&stubDetector{triggersScenario("good", "bad", "panicky", "fine")}, registry)

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)

	assert.Equal(t, 4, result.ActiveAgents)
	assert.Equal(t, 2, result.InsightsGenerated)
	require.Len(t, result.Insights, 2)
	assert.Equal(t, "Stub good", result.Insights[0].AgentName)
	assert.Equal(t, "Stub fine", result.Insights[1].AgentName)
}

func TestOrchestrateUnknownTriggersDropped(t *testing.T) {
	registry := agent.NewRegistryOf(
		&stubAgent{id: "known", insights: []insight.Insight{mkInsight("known", insight.PriorityMedium, 0.8)}},
	)
	o := New(&stubDetector{triggersScenario("known", "ghost", "phantom")}, registry)

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ActiveAgents)
	assert.Equal(t, 1, result.TotalAgents)
}

func TestOrchestrateSortsByPriorityThenConfidence(t *testing.T) {
	registry := agent.NewRegistryOf(
		&stubAgent{id: "a", insights: []insight.Insight{mkInsight("a", insight.PriorityLow, 0.99)}},
		&stubAgent{id: "b", insights: []insight.Insight{mkInsight("b", insight.PriorityCritical, 0.5)}},
		&stubAgent{id: "c", insights: []insight.Insight{mkInsight("c", insight.PriorityHigh, 0.7)}},
		&stubAgent{id: "d", insights: []insight.Insight{mkInsight("d", insight.PriorityHigh, 0.9)}},
	)
	o := New(&stubDetector{triggersScenario("a", "b", "c", "d")}, registry)

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)
	require.Len(t, result.Insights, 4)

	assert.Equal(t, "Stub b", result.Insights[0].AgentName)
	assert.Equal(t, "Stub d", result.Insights[1].AgentName)
	assert.Equal(t, "Stub c", result.Insights[2].AgentName)
	assert.Equal(t, "Stub a", result.Insights[3].AgentName)

	// Priority rank never decreases down the list.
	for i := 1; i < len(result.Insights); i++ {
		assert.GreaterOrEqual(t,
			result.Insights[i].Priority.Rank(),
			result.Insights[i-1].Priority.Rank(),
		)
	}
}

func TestOrchestrateStableTieBreak(t *testing.T) {
	registry := agent.NewRegistryOf(
		&stubAgent{id: "first", insights: []insight.Insight{mkInsight("first", insight.PriorityMedium, 0.8)}},
		&stubAgent{id: "second", insights: []insight.Insight{mkInsight("second", insight.PriorityMedium, 0.8)}},
	)
	o := New(&stubDetector{triggersScenario("first", "second")}, registry)

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)
	require.Len(t, result.Insights, 2)
	assert.Equal(t, "Stub first", result.Insights[0].AgentName)
	assert.Equal(t, "Stub second", result.Insights[1].AgentName)
}

func TestOrchestrateCapsInsights(t *testing.T) {
	var agents []agent.Agent
	var triggers []string
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		agents = append(agents, &stubAgent{id: id, insights: []insight.Insight{mkInsight(id, insight.PriorityMedium, 0.8)}})
		triggers = append(triggers, id)
	}
	o := New(&stubDetector{triggersScenario(triggers...)}, agent.NewRegistryOf(agents...))

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 7, result.InsightsGenerated)
	assert.Len(t, result.Insights, DefaultMaxInsights)
}

func TestOrchestrateWeightingMonotonicity(t *testing.T) {
	registry := agent.NewRegistryOf(
		&stubAgent{id: "boosted", insights: []insight.Insight{mkInsight("boosted", insight.PriorityMedium, 0.6)}},
		&stubAgent{id: "capped", insights: []insight.Insight{mkInsight("capped", insight.PriorityMedium, 0.9)}},
		&stubAgent{id: "plain", insights: []insight.Insight{mkInsight("plain", insight.PriorityMedium, 0.5)}},
	)
	weights := preference.Weights{"boosted": 1.5, "capped": 2.0}
	o := New(&stubDetector{triggersScenario("boosted", "capped", "plain")}, registry, WithWeights(weights))

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)
	require.Len(t, result.Insights, 3)

	byAgent := map[string]float64{}
	for _, in := range result.Insights {
		byAgent[in.AgentName] = in.Confidence
	}
	assert.InDelta(t, 0.9, byAgent["Stub boosted"], 1e-9)
	assert.Equal(t, 1.0, byAgent["Stub capped"])
	assert.InDelta(t, 0.5, byAgent["Stub plain"], 1e-9)
}

func TestOrchestrateEmptyTriggerSet(t *testing.T) {
	registry := agent.NewRegistryOf(&stubAgent{id: "idle"})
	o := New(&stubDetector{triggersScenario()}, registry)

	result, err := o.Orchestrate(context.Background(), &snapshot.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ActiveAgents)
	assert.NotNil(t, result.Insights)
	assert.Empty(t, result.Insights)
}

func TestOrchestrateNilSnapshot(t *testing.T) {
	o := New(&stubDetector{triggersScenario()}, agent.NewRegistryOf())
	_, err := o.Orchestrate(context.Background(), nil)
	assert.Error(t, err)
}

func TestOrchestrateManualScenarioPassthrough(t *testing.T) {
	// With a real rule detector, a manual scenario drives the exact trigger
	// set and full confidence regardless of snapshot contents.
	registry := agent.NewRegistryOf(
		&stubAgent{id: "wellness", insights: []insight.Insight{mkInsight("wellness", insight.PriorityMedium, 0.8)}},
		&stubAgent{id: "content", insights: []insight.Insight{mkInsight("content", insight.PriorityMedium, 0.7)}},
		&stubAgent{id: "productivity"},
	)
	o := New(scenario.NewRuleDetector(), registry)

	snap := &snapshot.Snapshot{
		Timestamp:      "2025-03-12T10:00:00Z",
		ManualScenario: "before_sleep",
		CalendarEvents: []snapshot.Event{{Title: "Team Standup", Time: "10:30"}},
	}
	result, err := o.Orchestrate(context.Background(), snap)
	require.NoError(t, err)

	require.Equal(t, scenario.BeforeSleep, result.Scenario.Type)
	assert.Equal(t, 1.0, result.Scenario.Confidence)
	assert.Equal(t, 2, result.ActiveAgents)
	assert.Equal(t, 2, result.InsightsGenerated)
}
