// Package scenario classifies a context snapshot into exactly one of a
// fixed, closed set of scenarios. Each scenario activates a subset of the
// agent registry.
package scenario

import (
	"context"

	"github.com/auralab/aura/ai/snapshot"
)

// Type tags the closed set of scenarios.
type Type string

const (
	CommutingToWork Type = "commuting_to_work"
	AtWork          Type = "at_work"
	BeforeSleep     Type = "before_sleep"
	LunchTime       Type = "lunch_time"
	SocialEvening   Type = "social_evening"
	Weekend         Type = "weekend"
	WorkoutTime     Type = "workout_time"
	Shopping        Type = "shopping"
	General         Type = "general"
)

// Scenario is the classified "what the user is doing now" result. Created
// fresh per request, never persisted.
type Scenario struct {
	Type        Type           `json:"type"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	Triggers    []string       `json:"triggers"`
	ContextData map[string]any `json:"context_data"`
	Manual      bool           `json:"manual,omitempty"`
}

// Detector maps a snapshot to exactly one scenario. Implementations never
// return an error to the caller; unclassifiable input resolves to the
// general scenario.
type Detector interface {
	Detect(ctx context.Context, snap *snapshot.Snapshot) *Scenario
}

// Definition is one catalog entry of the closed scenario set.
type Definition struct {
	Type        Type
	Description string
	Confidence  float64
	Triggers    []string
}

// catalog is the fixed scenario set. Trigger identifiers reference the
// global agent registry; the dispatch set is always a subset of it.
var catalog = []Definition{
	{CommutingToWork, "Commuting to work - travel, music, and preparation", 1.0, []string{"context", "content", "productivity"}},
	{AtWork, "At work - focus and productivity mode", 1.0, []string{"productivity", "content"}},
	{BeforeSleep, "Winding down - sleep optimization time", 1.0, []string{"wellness", "content"}},
	{LunchTime, "Lunch break - food and social time", 1.0, []string{"financial", "social"}},
	{SocialEvening, "Social time - events and connections", 1.0, []string{"social", "context", "emotional"}},
	{Weekend, "Weekend mode - relaxation and activities", 1.0, []string{"social", "wellness", "content"}},
	{WorkoutTime, "Workout mode - fitness and motivation", 1.0, []string{"wellness", "social", "content"}},
	{Shopping, "Shopping mode - purchases and deals", 1.0, []string{"financial", "context"}},
	{General, "General context - adaptive mode", 0.5, []string{"context", "emotional"}},
}

// Catalog returns the fixed scenario definitions, in stable order.
func Catalog() []Definition {
	return catalog
}

// Lookup returns the catalog definition for the given type. Unknown types
// resolve to the general definition, never to an error.
func Lookup(t Type) Definition {
	for _, def := range catalog {
		if def.Type == t {
			return def
		}
	}
	return Lookup(General)
}

// IsKnown reports whether t is part of the closed scenario set.
func IsKnown(t Type) bool {
	for _, def := range catalog {
		if def.Type == t {
			return true
		}
	}
	return false
}

// FromCatalog builds a scenario from its catalog definition.
func FromCatalog(t Type) *Scenario {
	def := Lookup(t)
	return &Scenario{
		Type:        def.Type,
		Description: def.Description,
		Confidence:  def.Confidence,
		Triggers:    append([]string(nil), def.Triggers...),
		ContextData: map[string]any{},
	}
}

// Manual resolves an explicit scenario override. The override is decisive:
// it bypasses all heuristics. Unknown identifiers resolve to general.
func Manual(t Type) *Scenario {
	s := FromCatalog(t)
	s.Manual = true
	s.ContextData["method"] = "manual"
	return s
}
