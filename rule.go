package uploadrules

import (
	"context"
	"time"
)

// Rule checks one property of an uploaded file.
//
// Check returns true when the file satisfies the rule and false when it does
// not. A non-nil error means the rule could not be evaluated at all (see
// [CapabilityError]); the boolean is meaningless in that case.
type Rule interface {
	Name() string
	Check(ctx context.Context, file File) (bool, error)
}

// CheckFunc is the signature of a rule body.
type CheckFunc func(ctx context.Context, file File) (bool, error)

type funcRule struct {
	name string
	fn   CheckFunc
}

// Func adapts a plain function into a named Rule.
func Func(name string, fn CheckFunc) Rule {
	return &funcRule{name: name, fn: fn}
}

func (r *funcRule) Name() string { return r.name }

func (r *funcRule) Check(ctx context.Context, file File) (bool, error) {
	return r.fn(ctx, file)
}

// Outcome is the three-way result of evaluating a rule.
type Outcome int

const (
	// Pass means the file satisfies the rule.
	Pass Outcome = iota
	// Fail means the file was rejected by the rule.
	Fail
	// EnvError means the rule could not run in this environment.
	EnvError
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case EnvError:
		return "env-error"
	default:
		return "unknown"
	}
}

// Verdict records the evaluation of one rule against one file.
type Verdict struct {
	Rule    string
	Outcome Outcome
	Reason  string
	Err     error
	Took    time.Duration
}

// Evaluate runs rule against file and classifies the result.
func Evaluate(ctx context.Context, rule Rule, file File) Verdict {
	start := time.Now()
	ok, err := rule.Check(ctx, file)

	v := Verdict{Rule: rule.Name(), Took: time.Since(start)}
	switch {
	case err != nil:
		v.Outcome = EnvError
		v.Err = err
		v.Reason = err.Error()
	case ok:
		v.Outcome = Pass
	default:
		v.Outcome = Fail
		v.Reason = describe(rule)
	}
	return v
}

// describe returns the constraint a rule enforces, when it can say.
func describe(rule Rule) string {
	if s, ok := rule.(interface{ String() string }); ok {
		return "requires " + s.String()
	}
	return "constraint not met"
}
