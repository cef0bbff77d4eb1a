// Package orchestrator coordinates a single analysis pass: scenario
// detection, concurrent agent fan-out, feedback weighting, and global
// ranking of the merged insight list.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/semaphore"

	"github.com/auralab/aura/ai/agent"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/metrics"
	"github.com/auralab/aura/ai/preference"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
)

// DefaultMaxInsights caps the final result list regardless of how many
// agents fired.
const DefaultMaxInsights = 5

// defaultMaxConcurrency bounds the agent fan-out per request.
const defaultMaxConcurrency = 8

// Result is the full outcome of one orchestration pass.
type Result struct {
	Insights          []insight.Insight  `json:"insights"`
	Scenario          *scenario.Scenario `json:"scenario"`
	ActiveAgents      int                `json:"active_agents"`
	TotalAgents       int                `json:"total_agents"`
	InsightsGenerated int                `json:"insights_generated"`
	Timestamp         string             `json:"timestamp"`
}

// Orchestrator runs the detection and agent pipeline. Weights are loaded
// once at construction, never re-read per request.
type Orchestrator struct {
	detector       scenario.Detector
	registry       *agent.Registry
	weights        preference.Weights
	exporter       *metrics.Exporter
	maxInsights    int
	maxConcurrency int64
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithMaxInsights overrides the result list cap.
func WithMaxInsights(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxInsights = n
		}
	}
}

// WithWeights sets the per-agent confidence weight map.
func WithWeights(w preference.Weights) Option {
	return func(o *Orchestrator) { o.weights = w }
}

// WithExporter wires metric recording.
func WithExporter(e *metrics.Exporter) Option {
	return func(o *Orchestrator) { o.exporter = e }
}

// New creates an orchestrator over the given detector and agent registry.
func New(detector scenario.Detector, registry *agent.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		detector:       detector,
		registry:       registry,
		weights:        preference.Weights{},
		maxInsights:    DefaultMaxInsights,
		maxConcurrency: defaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type agentOutcome struct {
	agent    agent.Agent
	insights []insight.Insight
	err      error
}

// Orchestrate runs one full analysis pass. It never fails on classifier or
// agent trouble; those paths degrade per their own contracts. The returned
// insight list is globally sorted and capped.
func (o *Orchestrator) Orchestrate(ctx context.Context, snap *snapshot.Snapshot) (*Result, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}

	traceID := shortuuid.New()
	startTime := time.Now()

	sc := o.detector.Detect(ctx, snap)
	active := o.registry.Resolve(sc.Triggers)

	slog.Info("orchestrator: pass started",
		"trace_id", traceID,
		"scenario", sc.Type,
		"confidence", sc.Confidence,
		"active_agents", len(active),
		"total_agents", o.registry.Len(),
	)

	outcomes := o.fanOut(ctx, snap, sc, active, traceID)

	// Merge successes in agent-iteration order before the global sort so
	// that ties stay deterministic.
	var merged []insight.Insight
	for _, out := range outcomes {
		if out.err != nil {
			slog.Error("orchestrator: agent failed, excluded from merge",
				"trace_id", traceID,
				"agent", out.agent.ID(),
				"error", out.err,
			)
			continue
		}
		merged = append(merged, out.insights...)
	}
	generated := len(merged)

	for i := range merged {
		merged[i].Confidence = o.weights.Apply(agentIDFor(merged[i], outcomes), merged[i].Confidence)
	}

	// Priority rank ascending, then confidence descending. The sort is
	// stable so equal pairs keep their merge order.
	sort.SliceStable(merged, func(i, j int) bool {
		ri, rj := merged[i].Priority.Rank(), merged[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return merged[i].Confidence > merged[j].Confidence
	})

	if len(merged) > o.maxInsights {
		merged = merged[:o.maxInsights]
	}
	if merged == nil {
		merged = []insight.Insight{}
	}

	duration := time.Since(startTime)
	if o.exporter != nil {
		o.exporter.RecordOrchestration(string(sc.Type), duration, generated)
	}
	slog.Info("orchestrator: pass complete",
		"trace_id", traceID,
		"scenario", sc.Type,
		"insights_generated", generated,
		"insights_returned", len(merged),
		"duration_ms", duration.Milliseconds(),
	)

	return &Result{
		Insights:          merged,
		Scenario:          sc,
		ActiveAgents:      len(active),
		TotalAgents:       o.registry.Len(),
		InsightsGenerated: generated,
		Timestamp:         time.Now().Format(time.RFC3339),
	}, nil
}

// fanOut dispatches all active agents together and awaits them as a group.
// Each agent is independently isolated: a panic or error in one never
// cancels or affects another.
func (o *Orchestrator) fanOut(ctx context.Context, snap *snapshot.Snapshot, sc *scenario.Scenario, active []agent.Agent, traceID string) []agentOutcome {
	sem := semaphore.NewWeighted(o.maxConcurrency)
	outcomes := make([]agentOutcome, len(active))
	done := make(chan int, len(active))

	for i, a := range active {
		outcomes[i].agent = a
		go func(idx int, a agent.Agent) {
			defer func() {
				if r := recover(); r != nil {
					outcomes[idx].err = fmt.Errorf("agent panic: %v", r)
				}
				done <- idx
			}()

			if err := sem.Acquire(ctx, 1); err != nil {
				outcomes[idx].err = fmt.Errorf("acquire slot: %w", err)
				return
			}
			defer sem.Release(1)

			agentStart := time.Now()
			insights, err := a.Analyze(ctx, snap, sc)
			outcomes[idx].insights = insights
			outcomes[idx].err = err

			if o.exporter != nil {
				o.exporter.RecordAgentRun(a.ID(), time.Since(agentStart), err == nil)
			}
			if err == nil {
				slog.Debug("orchestrator: agent done",
					"trace_id", traceID,
					"agent", a.ID(),
					"insights", len(insights),
					"duration_ms", time.Since(agentStart).Milliseconds(),
				)
			}
		}(i, a)
	}

	for range active {
		<-done
	}
	return outcomes
}

// agentIDFor resolves the registry identifier for an insight via the agent
// that produced it. Weight maps are keyed by identifier, insights carry the
// human-readable name.
func agentIDFor(in insight.Insight, outcomes []agentOutcome) string {
	for _, out := range outcomes {
		if out.agent.Name() == in.AgentName {
			return out.agent.ID()
		}
	}
	return in.AgentName
}
