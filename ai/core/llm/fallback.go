package llm

import (
	"context"
	"log/slog"
	"strings"
)

// cannedResponses is an ordered decision list: the first category keyword
// found in the prompt wins, so a prompt mentioning several categories always
// resolves to the same response. Consumers parse these exactly like a live
// response, so total provider failure never changes the response shape, only
// its quality.
var cannedResponses = []struct {
	category string
	response string
}{
	{"wellness", "TITLE: Wind Down Early\n" +
		"MESSAGE: Poor sleep detected in recent data. Enable Do Not Disturb after 10 PM to protect tonight's rest.\n" +
		"ACTION: Enable DND\n" +
		"PRIORITY: medium\n" +
		"REASONING: Sleep quality drives next-day energy."},
	{"productivity", "TITLE: Prepare Before the Meeting\n" +
		"MESSAGE: A work session is coming up. Block 30 minutes beforehand to prepare notes and pending reviews.\n" +
		"ACTION: Block Time\n" +
		"PRIORITY: medium\n" +
		"REASONING: Preparation reduces context switching."},
	{"social", "TITLE: Protect Your Social Time\n" +
		"MESSAGE: A social event is on the calendar. Mute work notifications for the evening.\n" +
		"ACTION: Mute Work Apps\n" +
		"PRIORITY: medium\n" +
		"REASONING: Presence improves social connection."},
	{"emotional", "TITLE: Take a Short Break\n" +
		"MESSAGE: Recent activity suggests elevated stress. A ten minute walk can reset your focus.\n" +
		"ACTION: Start Break\n" +
		"PRIORITY: medium\n" +
		"REASONING: Brief breaks lower stress markers."},
	{"financial", "TITLE: Watch Recent Spending\n" +
		"MESSAGE: Recent purchases detected. Review this week's spending before the next buy.\n" +
		"ACTION: View Spending\n" +
		"PRIORITY: low\n" +
		"REASONING: Regular review prevents overspend."},
	{"context", "TITLE: Check Your Next Step\n" +
		"MESSAGE: Based on your location and calendar, review what is coming up next and when to leave.\n" +
		"ACTION: View Schedule\n" +
		"PRIORITY: medium\n" +
		"REASONING: Context awareness avoids surprises."},
	{"content", "TITLE: Queue Something Good\n" +
		"MESSAGE: Pick a playlist or podcast matching your current activity before you start.\n" +
		"ACTION: Open Library\n" +
		"PRIORITY: low\n" +
		"REASONING: Matching content to activity improves focus."},
}

const cannedDefault = "TITLE: Context Reviewed\n" +
	"MESSAGE: Your current context was analyzed. Recommendations are available.\n" +
	"ACTION: View Details\n" +
	"PRIORITY: low\n" +
	"REASONING: General analysis of available data."

// CannedResponse returns the canned completion for the category hinted at by
// the prompt text. It always returns a parseable response.
func CannedResponse(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, c := range cannedResponses {
		if strings.Contains(lower, c.category) {
			return c.response
		}
	}
	return cannedDefault
}

// resilient wraps a Service so that provider failures degrade to canned
// responses instead of surfacing errors. Agents and the classifier always
// receive a parseable response.
type resilient struct {
	inner      Service
	onFallback func()
}

// ResilientOption configures the resilient wrapper.
type ResilientOption func(*resilient)

// WithFallbackHook registers a callback invoked on every canned-response
// fallback, typically a metrics counter.
func WithFallbackHook(hook func()) ResilientOption {
	return func(r *resilient) { r.onFallback = hook }
}

// NewResilient wraps the given service with canned-response degradation.
// A nil inner service degrades every call, which is how the system runs
// without an API key.
func NewResilient(inner Service, opts ...ResilientOption) Service {
	r := &resilient{inner: inner}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *resilient) fallback(prompt string) string {
	if r.onFallback != nil {
		r.onFallback()
	}
	return CannedResponse(prompt)
}

func (r *resilient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if r.inner == nil {
		slog.Debug("llm: no provider configured, using canned response")
		return r.fallback(prompt), nil
	}
	response, err := r.inner.Complete(ctx, prompt, maxTokens)
	if err != nil {
		slog.Warn("llm: provider failed, degrading to canned response", "error", err)
		return r.fallback(prompt), nil
	}
	return response, nil
}

func (r *resilient) Warmup(ctx context.Context) {
	if r.inner != nil {
		r.inner.Warmup(ctx)
	}
}
