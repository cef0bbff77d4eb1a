package insight

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

var testDefaults = Defaults{
	AgentName:  "Test Agent",
	Category:   "test",
	Title:      "Default Title",
	Action:     "Default Action",
	Reasoning:  "Default Reasoning",
	Priority:   PriorityMedium,
	Confidence: 0.85,
}

func TestParseWellFormedResponse(t *testing.T) {
	response := `TITLE: Leave by 8:45
MESSAGE: The Northern Line is delayed, take Bus 55 instead.
ACTION: View Routes
PRIORITY: high
REASONING: Transport status at this hour.`

	got := Parse(response, testDefaults)
	assert.Equal(t, "Leave by 8:45", got.Title)
	assert.Equal(t, "The Northern Line is delayed, take Bus 55 instead.", got.Message)
	assert.Equal(t, "View Routes", got.Action)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, "Transport status at this hour.", got.Reasoning)
	assert.Equal(t, "Test Agent", got.AgentName)
	assert.Equal(t, 0.85, got.Confidence)
}

func TestParseCaseInsensitivePrefixes(t *testing.T) {
	response := "title: lower\nPriority: LOW"
	got := Parse(response, testDefaults)
	assert.Equal(t, "lower", got.Title)
	assert.Equal(t, PriorityLow, got.Priority)
}

func TestParseMarkdownWrappedPrefixes(t *testing.T) {
	response := "**TITLE:** Bold Title\n- MESSAGE: listed message"
	got := Parse(response, testDefaults)
	assert.Equal(t, "Bold Title", got.Title)
	assert.Equal(t, "listed message", got.Message)
}

func TestParseUnrecognizedPriorityFallsBack(t *testing.T) {
	response := "PRIORITY: urgent!!"
	got := Parse(response, testDefaults)
	assert.Equal(t, PriorityMedium, got.Priority)
}

func TestParseNoMarkersYieldsDefaults(t *testing.T) {
	response := "The model decided to write an essay instead of following the format."
	got := Parse(response, testDefaults)
	assert.Equal(t, "Default Title", got.Title)
	assert.Equal(t, response, got.Message)
	assert.Equal(t, "Default Action", got.Action)
	assert.Equal(t, PriorityMedium, got.Priority)
}

func TestParseLongResponseTruncatesMessageFallback(t *testing.T) {
	response := strings.Repeat("x", 500)
	got := Parse(response, testDefaults)
	assert.Len(t, got.Message, 200)
}

func TestParseTruncationKeepsValidUTF8(t *testing.T) {
	// 100 three-byte runes: the 200-byte limit lands mid-rune and must back
	// off to the previous boundary.
	response := strings.Repeat("日", 100)
	got := Parse(response, testDefaults)
	assert.True(t, utf8.ValidString(got.Message))
	assert.Equal(t, strings.Repeat("日", 66), got.Message)
}

func TestParseEmptyResponse(t *testing.T) {
	got := Parse("", testDefaults)
	assert.Equal(t, "Default Title", got.Title)
	assert.Equal(t, "", got.Message)
	assert.Equal(t, PriorityMedium, got.Priority)
}

func TestParseUnknownLinesIgnored(t *testing.T) {
	response := "FOO: bar\nTITLE: Kept\nRANDOM TEXT WITHOUT COLON"
	got := Parse(response, testDefaults)
	assert.Equal(t, "Kept", got.Title)
}

func TestParseInvalidDefaultPriorityNormalized(t *testing.T) {
	d := testDefaults
	d.Priority = Priority("bogus")
	got := Parse("TITLE: x", d)
	assert.Equal(t, PriorityMedium, got.Priority)
}

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority Priority
		rank     int
	}{
		{PriorityCritical, 0},
		{PriorityHigh, 1},
		{PriorityMedium, 2},
		{PriorityLow, 3},
		{Priority("mystery"), 2},
	}
	for _, tt := range tests {
		if got := tt.priority.Rank(); got != tt.rank {
			t.Errorf("Rank(%q) = %d, want %d", tt.priority, got, tt.rank)
		}
	}
}
