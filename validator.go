package uploadrules

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/gobwas/glob"
	"github.com/m-mizutani/ctxlog"
)

type fieldKey struct{}

// WithField returns a context carrying the name of the field under validation.
func WithField(ctx context.Context, field string) context.Context {
	return context.WithValue(ctx, fieldKey{}, field)
}

// FieldFrom returns the field stored by WithField, or "".
func FieldFrom(ctx context.Context) string {
	field, _ := ctx.Value(fieldKey{}).(string)
	return field
}

type binding struct {
	pattern string
	matcher glob.Glob
	rules   []string
}

// Validator runs rules from a Table against upload fields. Fields are
// matched against bound glob patterns using "." as the separator, so
// "photos.*" matches "photos.0" but not "photos.0.thumb".
//
// Bindings should be set up before the validator is shared; Validate is safe
// for concurrent use.
type Validator struct {
	table       *Table
	mu          sync.RWMutex
	bindings    []binding
	fingerprint bool
}

// ValidatorOption configures a Validator
type ValidatorOption func(*Validator)

// WithFingerprint attaches an xxhash64 content fingerprint to every report.
func WithFingerprint() ValidatorOption {
	return func(v *Validator) {
		v.fingerprint = true
	}
}

// NewValidator creates a validator drawing rules from table.
func NewValidator(table *Table, opts ...ValidatorOption) *Validator {
	if table == nil {
		table = NewTable()
	}
	v := &Validator{table: table}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Table returns the rule table.
func (v *Validator) Table() *Table { return v.table }

// Bind applies the named rules, in order, to every field matching pattern.
func (v *Validator) Bind(pattern string, rules ...string) error {
	matcher, err := glob.Compile(pattern, '.')
	if err != nil {
		return fmt.Errorf("invalid field pattern %q: %w", pattern, err)
	}
	for _, name := range rules {
		if _, ok := v.table.Get(name); !ok {
			return fmt.Errorf("%w: %s (field pattern %q)", ErrUnknownRule, name, pattern)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.bindings = append(v.bindings, binding{
		pattern: pattern,
		matcher: matcher,
		rules:   append([]string(nil), rules...),
	})
	return nil
}

// Patterns returns the bound field patterns in binding order.
func (v *Validator) Patterns() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	patterns := make([]string, 0, len(v.bindings))
	for _, b := range v.bindings {
		patterns = append(patterns, b.pattern)
	}
	return patterns
}

// BoundRules returns the rules bound through pattern itself, in binding order.
func (v *Validator) BoundRules(pattern string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	var names []string
	for _, b := range v.bindings {
		if b.pattern == pattern {
			names = append(names, b.rules...)
		}
	}
	return names
}

// RulesFor returns the names of the rules applying to field. A rule bound
// through several matching patterns is listed once.
func (v *Validator) RulesFor(field string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for _, b := range v.bindings {
		if !b.matcher.Match(field) {
			continue
		}
		for _, name := range b.rules {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Validate runs every rule bound to field against file.
//
// Rule failures are collected in the report and do not produce an error.
// If a rule cannot run (see CapabilityError), validation stops and the
// partial report is returned together with that error.
func (v *Validator) Validate(ctx context.Context, field string, file File) (*Report, error) {
	ctx = WithField(ctx, field)
	logger := ctxlog.From(ctx)
	b := NewReportBuilder(field, file)

	for _, name := range v.RulesFor(field) {
		rule, ok := v.table.Get(name)
		if !ok {
			return b.Build(), fmt.Errorf("%w: %s", ErrUnknownRule, name)
		}

		// reports name the rule as registered, e.g. "avatar.dimensions"
		verdict := Evaluate(ctx, rule, file)
		verdict.Rule = name
		b.Add(verdict)

		if verdict.Outcome == EnvError {
			logger.Warn("upload rule could not run",
				slog.String("field", field),
				slog.String("rule", verdict.Rule),
				slog.Any("error", verdict.Err))
			return b.Build(), verdict.Err
		}
	}

	if v.fingerprint {
		fp, err := Fingerprint(file.TmpName)
		if err != nil {
			logger.Debug("failed to fingerprint upload",
				slog.String("field", field),
				slog.Any("error", err))
		} else {
			b.SetFingerprint(fp)
		}
	}

	report := b.Build()
	if !report.Valid() {
		logger.Debug("upload rejected",
			slog.String("field", field),
			slog.String("tmp_name", file.TmpName),
			slog.Int64("size", file.Size),
			slog.Any("failed", report.FailedRules()),
			slog.String("fingerprint", report.Fingerprint))
	}
	return report, nil
}

// ValidateAll validates several fields in sorted field order. It stops at
// the first field whose rules cannot run and returns the reports so far.
func (v *Validator) ValidateAll(ctx context.Context, files map[string]File) (map[string]*Report, error) {
	fields := make([]string, 0, len(files))
	for field := range files {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	reports := make(map[string]*Report, len(files))
	for _, field := range fields {
		report, err := v.Validate(ctx, field, files[field])
		reports[field] = report
		if err != nil {
			return reports, err
		}
	}
	return reports, nil
}

// Valid reports whether every report in reports passed.
func Valid(reports map[string]*Report) bool {
	for _, r := range reports {
		if !r.Valid() {
			return false
		}
	}
	return true
}
