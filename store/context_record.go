package store

// ContextCategory partitions historical records in the retrieval index.
type ContextCategory string

const (
	CategoryCalendar ContextCategory = "calendar"
	CategoryLocation ContextCategory = "location"
)

// ContextRecord is one historical record (a past calendar event or location
// visit) indexed for semantic retrieval.
type ContextRecord struct {
	ID        string            `json:"id"`
	Category  ContextCategory   `json:"category"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
	Embedding []float32         `json:"-"`
	CreatedTs int64             `json:"created_ts"`
}

// SimilarContextRecord is a retrieval hit with its similarity score.
// Score is in (0, 1], higher is more similar.
type SimilarContextRecord struct {
	Record *ContextRecord
	Score  float64
}

// FindSimilarContextRecords specifies a vector similarity query.
type FindSimilarContextRecords struct {
	Embedding []float32
	Category  *ContextCategory
	Limit     int
}
