// Package insight defines the structured suggestion type returned to
// callers and the shared parser that turns free-text LLM output into one.
package insight

// Priority orders insights in the final ranking. Lower rank sorts first.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the fixed sort rank for the priority. Unknown values rank as
// medium, mirroring how lenient the rest of the parsing pipeline is.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

// IsValid reports whether p is one of the recognized priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Insight is one structured suggestion produced by an agent. The
// orchestrator may adjust Confidence and Priority before ranking; after
// ranking an insight is never mutated.
type Insight struct {
	AgentName  string   `json:"agent_name"`
	Title      string   `json:"title"`
	Message    string   `json:"message"`
	Action     string   `json:"action"`
	Category   string   `json:"category"`
	Priority   Priority `json:"priority"`
	Confidence float64  `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}
