package scenario

import (
	"os"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Custom rules let a deployment prepend its own deterministic scenario
// predicates to the built-in decision list. Expressions are CEL, compiled
// once at load. Variables available to an expression:
//
//	hour            int     hour of day (0-23)
//	weekday         int     0=Sunday .. 6=Saturday
//	is_weekend      bool
//	at_home         bool
//	at_work         bool
//	next_event      string  lower-cased next calendar event title
//	location_name   string  lower-cased current location name

// CustomRule is one user-defined rule as declared in the YAML file.
type CustomRule struct {
	Name       string  `yaml:"name"`
	Scenario   string  `yaml:"scenario"`
	Expression string  `yaml:"expression"`
	Confidence float64 `yaml:"confidence"`
}

// CompiledRule is a custom rule with its compiled CEL program.
type CompiledRule struct {
	Name       string
	Scenario   Type
	Confidence float64
	program    cel.Program
}

type customRuleFile struct {
	Rules []CustomRule `yaml:"rules"`
}

func newRuleEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("hour", cel.IntType),
		cel.Variable("weekday", cel.IntType),
		cel.Variable("is_weekend", cel.BoolType),
		cel.Variable("at_home", cel.BoolType),
		cel.Variable("at_work", cel.BoolType),
		cel.Variable("next_event", cel.StringType),
		cel.Variable("location_name", cel.StringType),
	)
}

// LoadCustomRules reads and compiles the custom rule file. A missing path
// or missing file yields no rules; a malformed file or expression is a
// configuration error and is reported.
func LoadCustomRules(path string) ([]CompiledRule, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read scenario rule file %s", path)
	}

	var file customRuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scenario rule file %s", path)
	}

	env, err := newRuleEnv()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create rule environment")
	}

	compiled := make([]CompiledRule, 0, len(file.Rules))
	for _, rule := range file.Rules {
		c, err := CompileRule(env, rule)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, *c)
	}
	return compiled, nil
}

// CompileRule validates and compiles a single custom rule.
func CompileRule(env *cel.Env, rule CustomRule) (*CompiledRule, error) {
	if !IsKnown(Type(rule.Scenario)) {
		return nil, errors.Errorf("rule %q references unknown scenario %q", rule.Name, rule.Scenario)
	}
	ast, issues := env.Compile(rule.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrapf(issues.Err(), "rule %q has an invalid expression", rule.Name)
	}
	if ast.OutputType() != cel.BoolType {
		return nil, errors.Errorf("rule %q expression must evaluate to bool, got %s", rule.Name, ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %q failed to build program", rule.Name)
	}

	confidence := rule.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.8
	}
	return &CompiledRule{
		Name:       rule.Name,
		Scenario:   Type(rule.Scenario),
		Confidence: confidence,
		program:    program,
	}, nil
}

// Eval runs the rule against the derived signals. Evaluation errors make the
// rule a non-match for this request.
func (r *CompiledRule) Eval(in *ruleInput) (bool, error) {
	out, _, err := r.program.Eval(map[string]any{
		"hour":          in.hour,
		"weekday":       int(in.weekday),
		"is_weekend":    in.weekday == time.Saturday || in.weekday == time.Sunday,
		"at_home":       in.atHome,
		"at_work":       in.atWork,
		"next_event":    strings.ToLower(in.nextTitle),
		"location_name": strings.ToLower(in.snap.CurrentLocation.Name),
	})
	if err != nil {
		return false, err
	}
	matched, ok := out.Value().(bool)
	return ok && matched, nil
}
