package store

// FeedbackAction is the user reaction recorded for a surfaced insight.
type FeedbackAction string

const (
	FeedbackClicked   FeedbackAction = "clicked"
	FeedbackDismissed FeedbackAction = "dismissed"
	FeedbackIgnored   FeedbackAction = "ignored"
)

// Score maps the action to its deterministic feedback score.
// Unknown actions score as neutral.
func (a FeedbackAction) Score() float64 {
	switch a {
	case FeedbackClicked:
		return 1.0
	case FeedbackDismissed:
		return -0.5
	default:
		return 0.0
	}
}

// IsValid reports whether the action is one of the recognized reactions.
func (a FeedbackAction) IsValid() bool {
	switch a {
	case FeedbackClicked, FeedbackDismissed, FeedbackIgnored:
		return true
	}
	return false
}

// FeedbackRecord is a single append-only feedback event for a
// (category, agent) pair. Records are never deleted except by explicit reset.
type FeedbackRecord struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	AgentName string         `json:"agent_name"`
	Action    FeedbackAction `json:"action"`
	Score     float64        `json:"score"`
	CreatedTs int64          `json:"created_ts"`
}

// FindFeedbackRecord specifies conditions for listing feedback records.
type FindFeedbackRecord struct {
	Category  *string
	AgentName *string
	Limit     int
}

// FeedbackStat is the aggregated running mean for a (category, agent) pair.
type FeedbackStat struct {
	Category  string  `json:"category"`
	AgentName string  `json:"agent_name"`
	Count     int64   `json:"count"`
	MeanScore float64 `json:"mean_score"`
}
