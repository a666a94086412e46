package uploadrules

import (
	"fmt"
	"strings"
	"time"
)

// Report collects the verdicts of every rule run for one upload field.
type Report struct {
	// Field is the name of the validated form field.
	Field string

	// File is the validated upload.
	File File

	// Verdicts lists rule results in evaluation order.
	Verdicts []Verdict

	// Fingerprint is the xxhash64 of the file content, when requested.
	Fingerprint string

	// Duration is how long validation took
	Duration time.Duration
}

// Valid reports whether every rule passed.
func (r *Report) Valid() bool {
	for _, v := range r.Verdicts {
		if v.Outcome != Pass {
			return false
		}
	}
	return true
}

// Failed returns the verdicts that did not pass.
func (r *Report) Failed() []Verdict {
	var failed []Verdict
	for _, v := range r.Verdicts {
		if v.Outcome != Pass {
			failed = append(failed, v)
		}
	}
	return failed
}

// FailedRules returns the names of the rules that did not pass.
func (r *Report) FailedRules() []string {
	var names []string
	for _, v := range r.Failed() {
		names = append(names, v.Rule)
	}
	return names
}

// Err returns the first environment error recorded, if any.
func (r *Report) Err() error {
	for _, v := range r.Verdicts {
		if v.Outcome == EnvError {
			return v.Err
		}
	}
	return nil
}

// Summary returns a one-line human-readable summary.
func (r *Report) Summary() string {
	name := r.File.Name
	if name == "" {
		name = r.File.TmpName
	}

	if r.Valid() {
		return fmt.Sprintf("✓ %s: %s (%d bytes) passed %d rules in %v",
			r.Field, name, r.File.Size, len(r.Verdicts), r.Duration.Round(time.Microsecond))
	}

	parts := make([]string, 0, len(r.Verdicts))
	for _, v := range r.Failed() {
		parts = append(parts, fmt.Sprintf("%s %s: %s", v.Rule, v.Outcome, v.Reason))
	}
	return fmt.Sprintf("✗ %s: %s failed: %s", r.Field, name, strings.Join(parts, "; "))
}

// ReportBuilder helps construct a Report
type ReportBuilder struct {
	report    Report
	startTime time.Time
}

// NewReportBuilder starts a report for field.
func NewReportBuilder(field string, file File) *ReportBuilder {
	return &ReportBuilder{
		report: Report{
			Field:    field,
			File:     file,
			Verdicts: make([]Verdict, 0, 4),
		},
		startTime: time.Now(),
	}
}

// Add appends a verdict.
func (b *ReportBuilder) Add(v Verdict) *ReportBuilder {
	b.report.Verdicts = append(b.report.Verdicts, v)
	return b
}

// SetFingerprint records the content fingerprint.
func (b *ReportBuilder) SetFingerprint(fp string) *ReportBuilder {
	b.report.Fingerprint = fp
	return b
}

// Build finalizes and returns the Report
func (b *ReportBuilder) Build() *Report {
	b.report.Duration = time.Since(b.startTime)
	return &b.report
}
