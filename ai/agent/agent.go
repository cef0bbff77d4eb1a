// Package agent defines the advice-generating capability and the fixed
// registry of concrete agents. Every agent issues at most one LLM call per
// invocation and parses the response with the shared insight parser.
package agent

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/auralab/aura/ai/core/llm"
	"github.com/auralab/aura/ai/insight"
	"github.com/auralab/aura/ai/retrieval"
	"github.com/auralab/aura/ai/scenario"
	"github.com/auralab/aura/ai/snapshot"
	"github.com/auralab/aura/internal/util"
)

// Agent produces zero or more insights for a snapshot. An empty result is a
// legitimate outcome: an agent may decline to speak for a scenario. Errors
// are isolated by the orchestrator and never propagate to the caller.
type Agent interface {
	// ID is the stable identifier referenced by scenario trigger sets.
	ID() string

	// Name is the human-readable agent name carried on produced insights.
	Name() string

	// Analyze inspects the snapshot under the detected scenario and returns
	// structured insights.
	Analyze(ctx context.Context, snap *snapshot.Snapshot, sc *scenario.Scenario) ([]insight.Insight, error)
}

// Registry holds the fixed agent set in registration order. The set is
// closed at construction; scenario trigger sets are always resolved against
// it, never against dynamic lookup.
type Registry struct {
	order  []string
	agents map[string]Agent
}

// NewRegistry builds the full built-in agent set. The retriever may be nil,
// which disables prompt enrichment for the retrieval-aware agents.
func NewRegistry(service llm.Service, retriever retrieval.Retriever) *Registry {
	return NewRegistryOf(
		NewContextAgent(service, retriever),
		NewWellnessAgent(service),
		NewProductivityAgent(service, retriever),
		NewSocialAgent(service),
		NewEmotionalAgent(service),
		NewFinancialAgent(service),
		NewContentAgent(service),
	)
}

// NewRegistryOf builds a registry from an explicit agent list, preserving
// order. Later duplicates replace earlier ones.
func NewRegistryOf(agents ...Agent) *Registry {
	r := &Registry{agents: map[string]Agent{}}
	for _, a := range agents {
		if _, exists := r.agents[a.ID()]; !exists {
			r.order = append(r.order, a.ID())
		}
		r.agents[a.ID()] = a
	}
	return r
}

// Resolve maps trigger identifiers to agents, preserving the given order.
// Unknown identifiers are dropped with a warning, never an error.
func (r *Registry) Resolve(ids []string) []Agent {
	resolved := make([]Agent, 0, len(ids))
	for _, id := range ids {
		a, ok := r.agents[id]
		if !ok {
			slog.Warn("agent: unknown trigger identifier dropped", "id", id)
			continue
		}
		resolved = append(resolved, a)
	}
	return resolved
}

// All returns every registered agent in registration order.
func (r *Registry) All() []Agent {
	agents := make([]Agent, 0, len(r.order))
	for _, id := range r.order {
		agents = append(agents, r.agents[id])
	}
	return agents
}

// Len returns the registry size.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// defaultRetrievalK bounds how many historical records enrich a prompt.
const defaultRetrievalK = 3

// jsonBlock renders a value as indented JSON for prompt interpolation.
// Unserializable values render as an empty object rather than failing the
// agent over prompt cosmetics.
func jsonBlock(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// retrieveContext queries the retriever with feedback-aware ranking and
// formats hits for prompt interpolation. Any failure degrades to no
// historical context.
func retrieveContext(ctx context.Context, retriever retrieval.Retriever, query, category, agentID string) string {
	if retriever == nil || query == "" {
		return ""
	}
	records, err := retriever.SimilarWithFeedback(ctx, query, defaultRetrievalK, category, agentID)
	if err != nil {
		slog.Warn("agent: retrieval failed, continuing without historical context",
			"agent", agentID,
			"error", err,
		)
		return ""
	}
	if len(records) == 0 {
		return ""
	}
	slog.Debug("agent: retrieved similar records", "agent", agentID, "count", len(records))

	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString("- ")
		sb.WriteString(rec.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

// filterEvents returns the calendar events whose title contains any keyword.
func filterEvents(events []snapshot.Event, keywords ...string) []snapshot.Event {
	var matched []snapshot.Event
	for _, e := range events {
		if util.ContainsAny(e.Title, keywords...) {
			matched = append(matched, e)
		}
	}
	return matched
}
