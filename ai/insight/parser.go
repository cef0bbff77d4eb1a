package insight

import (
	"strings"
	"unicode/utf8"
)

// Defaults seed the parser so that a response with no recognized field
// markers still yields a fully populated insight.
type Defaults struct {
	AgentName  string
	Category   string
	Title      string
	Message    string
	Action     string
	Reasoning  string
	Priority   Priority
	Confidence float64
}

// maxMessageFallback bounds the message default taken from raw response text.
const maxMessageFallback = 200

// Parse scans the response line by line for the recognized field prefixes
// (TITLE:, MESSAGE:, ACTION:, PRIORITY:, REASONING:). Matching is
// case-insensitive on the leading token; each recognized prefix overwrites
// the default; unknown lines are ignored. Parse is total: it never fails,
// malformed input just leaves defaults in place.
func Parse(response string, defaults Defaults) Insight {
	result := Insight{
		AgentName:  defaults.AgentName,
		Category:   defaults.Category,
		Title:      defaults.Title,
		Message:    defaults.Message,
		Action:     defaults.Action,
		Reasoning:  defaults.Reasoning,
		Priority:   defaults.Priority,
		Confidence: defaults.Confidence,
	}
	if !result.Priority.IsValid() {
		result.Priority = PriorityMedium
	}
	if result.Message == "" {
		trimmed := strings.TrimSpace(response)
		if len(trimmed) > maxMessageFallback {
			// Back off to a rune boundary so the cut never emits invalid UTF-8.
			cut := maxMessageFallback
			for cut > 0 && !utf8.RuneStart(trimmed[cut]) {
				cut--
			}
			trimmed = trimmed[:cut]
		}
		result.Message = trimmed
	}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		// Strip leading markdown emphasis some models wrap around field names.
		line = strings.TrimLeft(line, "*-# ")

		key, value, ok := splitField(line)
		if !ok {
			continue
		}
		switch key {
		case "title":
			result.Title = value
		case "message":
			result.Message = value
		case "action":
			result.Action = value
		case "reasoning":
			result.Reasoning = value
		case "priority":
			p := Priority(strings.ToLower(strings.TrimSpace(value)))
			if p.IsValid() {
				result.Priority = p
			} else {
				// Unrecognized priority values fall back to the default.
				result.Priority = defaults.Priority
				if !result.Priority.IsValid() {
					result.Priority = PriorityMedium
				}
			}
		}
	}

	return result
}

func splitField(line string) (string, string, bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key := strings.ToLower(strings.TrimSpace(strings.TrimRight(line[:idx], "*")))
	switch key {
	case "title", "message", "action", "priority", "reasoning":
		return key, strings.TrimSpace(strings.Trim(line[idx+1:], " *")), true
	}
	return "", "", false
}
