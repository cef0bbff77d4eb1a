package scenario

import (
	"context"
	"log/slog"
	"time"

	"github.com/auralab/aura/ai/snapshot"
	"github.com/auralab/aura/internal/util"
)

// RuleDetector is the deterministic classification strategy: a tagged
// decision list evaluated in one pass with explicit precedence. The first
// matching rule wins; rules marked Override are evaluated even after a match
// and replace it. In the inherited behavior the workout check silently
// overrode earlier matches; here that precedence is explicit and
// configurable via WorkoutOverride.
type RuleDetector struct {
	custom          []CompiledRule
	workoutOverride bool
}

// RuleOption configures the rule detector.
type RuleOption func(*RuleDetector)

// WithWorkoutOverride controls whether a workout match replaces an earlier
// scenario match. Defaults to true.
func WithWorkoutOverride(enabled bool) RuleOption {
	return func(d *RuleDetector) {
		d.workoutOverride = enabled
	}
}

// WithCustomRules prepends user-defined CEL rules, checked before the
// built-in decision list.
func WithCustomRules(rules []CompiledRule) RuleOption {
	return func(d *RuleDetector) {
		d.custom = rules
	}
}

// NewRuleDetector creates the rule-based detector.
func NewRuleDetector(opts ...RuleOption) *RuleDetector {
	d := &RuleDetector{workoutOverride: true}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// decisionRule is one tagged entry of the decision list.
type decisionRule struct {
	tag      Type
	override bool
	eval     func(*ruleInput) *Scenario
}

// ruleInput carries the derived signals every rule reads.
type ruleInput struct {
	snap      *snapshot.Snapshot
	hour      int
	weekday   time.Weekday
	atHome    bool
	atWork    bool
	nextTitle string
	nextLoc   string
}

// Detect resolves exactly one scenario. Manual override short-circuits the
// decision list entirely; no rule match resolves to general.
func (d *RuleDetector) Detect(_ context.Context, snap *snapshot.Snapshot) *Scenario {
	if snap.ManualScenario != "" {
		s := Manual(Type(snap.ManualScenario))
		slog.Info("scenario: manual override", "type", s.Type)
		return s
	}

	in := newRuleInput(snap)

	if s := d.evalCustom(in); s != nil {
		slog.Info("scenario: custom rule matched", "type", s.Type, "confidence", s.Confidence)
		return s
	}

	result := d.evalDecisionList(in)

	slog.Info("scenario: detected",
		"type", result.Type,
		"confidence", result.Confidence,
		"triggers", result.Triggers,
	)
	return result
}

func (d *RuleDetector) evalDecisionList(in *ruleInput) *Scenario {
	var matched *Scenario
	for _, rule := range decisionList {
		if matched != nil && !rule.override {
			continue
		}
		if matched != nil && rule.override && !d.workoutOverride {
			continue
		}
		if s := rule.eval(in); s != nil {
			matched = s
		}
	}
	if matched == nil {
		matched = fallbackGeneral()
	}
	return matched
}

func (d *RuleDetector) evalCustom(in *ruleInput) *Scenario {
	for i := range d.custom {
		rule := &d.custom[i]
		ok, err := rule.Eval(in)
		if err != nil {
			slog.Warn("scenario: custom rule evaluation failed, skipping",
				"rule", rule.Name, "error", err)
			continue
		}
		if ok {
			s := FromCatalog(rule.Scenario)
			s.Confidence = rule.Confidence
			s.ContextData["method"] = "custom_rule"
			s.ContextData["rule"] = rule.Name
			return s
		}
	}
	return nil
}

func newRuleInput(snap *snapshot.Snapshot) *ruleInput {
	hour, weekday := snap.Clock()
	in := &ruleInput{
		snap:    snap,
		hour:    hour,
		weekday: weekday,
		atHome:  snap.AtHome(),
		atWork:  snap.AtWork(),
	}
	if next := snap.NextEvent(); next != nil {
		in.nextTitle = next.Title
		in.nextLoc = next.Location
	}
	return in
}

func fallbackGeneral() *Scenario {
	s := FromCatalog(General)
	s.ContextData["method"] = "rules"
	return s
}

// decisionList is the fixed, ordered decision procedure. Earlier entries
// take precedence; the workout entry carries the override flag and is the
// only rule allowed to replace an earlier match.
var decisionList = []decisionRule{
	{tag: Shopping, eval: evalShopping},
	{tag: CommutingToWork, eval: evalCommuting},
	{tag: AtWork, eval: evalAtWork},
	{tag: BeforeSleep, eval: evalBeforeSleep},
	{tag: LunchTime, eval: evalLunch},
	{tag: SocialEvening, eval: evalSocialEvening},
	{tag: Weekend, eval: evalWeekend},
	{tag: WorkoutTime, override: true, eval: evalWorkout},
}

func evalShopping(in *ruleInput) *Scenario {
	if in.nextTitle == "" || !util.ContainsAny(in.nextTitle, "market", "shopping", "store", "mall") {
		return nil
	}
	s := FromCatalog(Shopping)
	s.Description = "Shopping trip - deals and purchases"
	s.Confidence = 0.85
	s.ContextData["shopping_event"] = in.snap.NextEvent()
	s.ContextData["recent_purchases"] = in.snap.List("purchases")
	return s
}

func evalCommuting(in *ruleInput) *Scenario {
	if in.hour < 7 || in.hour > 10 || !in.atHome {
		return nil
	}
	if !util.ContainsAny(in.nextTitle, "standup", "meeting", "work", "office", "review", "demo") {
		return nil
	}
	s := FromCatalog(CommutingToWork)
	s.Description = "At home with a work event coming up - likely commuting soon"
	s.Confidence = 0.9
	s.ContextData["next_event"] = in.snap.NextEvent()
	s.ContextData["commute_playlists"] = in.snap.List("spotify", "playlists")
	return s
}

func evalAtWork(in *ruleInput) *Scenario {
	atOffice := in.atWork ||
		util.ContainsAny(in.snap.CurrentLocation.Name, "office") ||
		util.ContainsAny(in.nextLoc, "office")
	if !atOffice || in.hour < 9 || in.hour > 18 {
		return nil
	}

	deepWork := util.ContainsAny(in.nextTitle, "deep work", "feature", "dev", "coding")
	s := FromCatalog(AtWork)
	if deepWork {
		s.Description = "At work - focus and productivity mode"
	} else {
		s.Description = "At work - meetings and collaboration"
	}
	s.Confidence = 0.95
	s.ContextData["is_deep_work"] = deepWork

	workEvents := []snapshot.Event{}
	for _, e := range in.snap.CalendarEvents {
		if util.ContainsAny(e.Title, "meeting", "review", "standup", "demo", "planning") {
			workEvents = append(workEvents, e)
		}
	}
	s.ContextData["work_events"] = workEvents
	return s
}

func evalBeforeSleep(in *ruleInput) *Scenario {
	if in.hour < 22 && in.hour > 1 {
		return nil
	}
	s := FromCatalog(BeforeSleep)
	s.Description = "Late night - sleep optimization time"
	s.Confidence = 0.9
	s.ContextData["sleep_quality"] = in.snap.String("fitness_data", "sleep", "quality")
	s.ContextData["screen_time"] = in.snap.String("app_usage", "screen_time")
	return s
}

func evalLunch(in *ruleInput) *Scenario {
	byHour := in.hour >= 12 && in.hour <= 14
	byEvent := in.nextTitle != "" && util.ContainsAny(in.nextTitle, "lunch", "sandwich", "food", "grab")
	if !byHour && !byEvent {
		return nil
	}
	s := FromCatalog(LunchTime)
	s.Description = "Lunch hour - food and cost optimization"
	s.Confidence = 0.85
	s.ContextData["contacts"] = in.snap.List("contacts")
	return s
}

func evalSocialEvening(in *ruleInput) *Scenario {
	weekdayEvening := in.hour >= 18 && in.hour <= 23 &&
		in.weekday >= time.Monday && in.weekday <= time.Friday
	byEvent := in.nextTitle != "" && util.ContainsAny(in.nextTitle, "drinks", "pub", "quiz", "dinner", "mates")
	if !weekdayEvening && !byEvent {
		return nil
	}

	socialEvents := []snapshot.Event{}
	for _, e := range in.snap.CalendarEvents {
		if util.ContainsAny(e.Title, "drinks", "pub", "dinner", "meet", "quiz", "mates") {
			socialEvents = append(socialEvents, e)
		}
	}
	// An evening alone is not a social evening; require an actual event.
	if len(socialEvents) == 0 && !byEvent {
		return nil
	}

	s := FromCatalog(SocialEvening)
	s.Confidence = 0.9
	s.ContextData["social_events"] = socialEvents
	s.ContextData["contacts"] = in.snap.List("contacts")
	return s
}

func evalWeekend(in *ruleInput) *Scenario {
	if in.weekday != time.Saturday && in.weekday != time.Sunday {
		return nil
	}
	s := FromCatalog(Weekend)
	s.Description = "Weekend - relaxation and social activities"
	s.Confidence = 0.8
	s.ContextData["weekend_events"] = in.snap.CalendarEvents
	s.ContextData["fitness_data"] = in.snap.Map("fitness_data")
	return s
}

func evalWorkout(in *ruleInput) *Scenario {
	byEvent := in.nextTitle != "" && util.ContainsAny(in.nextTitle, "workout", "run", "gym", "exercise")
	earlyRun := in.hour >= 6 && in.hour <= 8 && util.ContainsAny(in.nextTitle, "run")
	if !byEvent && !earlyRun {
		return nil
	}
	s := FromCatalog(WorkoutTime)
	s.Description = "Workout scheduled or in progress"
	s.Confidence = 0.85
	s.ContextData["workout_data"] = in.snap.Map("fitness_data", "last_workout")
	s.ContextData["next_event"] = in.snap.NextEvent()
	return s
}
