// Package report aggregates violations into the structured, severity-
// ranked summary consumed by external rendering. Building a report is a
// pure function of its inputs: no I/O, no clock, no randomness, so the
// same violations always produce the same report.
package report

import (
	"time"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/rules"
)

// DefaultSampleSize bounds the violations sampled per rule summary.
const DefaultSampleSize = 5

// DefaultThreshold is the severity at which a report fails.
const DefaultThreshold = core.SeverityError

// Options configures report building. Pass explicitly; never ambient.
type Options struct {
	// Threshold is the severity at or above which any violation fails
	// the report. Note that core.SeverityInfo is the zero value: callers
	// that want the documented default should start from DefaultOptions.
	Threshold core.Severity

	// SampleSize caps sampled violations per rule summary.
	// Zero means DefaultSampleSize.
	SampleSize int

	// RowCount is the dataset's row count, carried for context.
	RowCount int
}

// DefaultOptions returns the documented defaults: fail at error, sample
// five violations per rule.
func DefaultOptions() Options {
	return Options{
		Threshold:  DefaultThreshold,
		SampleSize: DefaultSampleSize,
	}
}

// RuleSummary aggregates one rule's (or pseudo-rule's) violations.
type RuleSummary struct {
	RuleID   string           `json:"rule_id"`
	Kind     string           `json:"kind,omitempty"`
	Severity core.Severity    `json:"severity"`
	Count    int              `json:"count"`
	Passed   bool             `json:"passed"`
	Samples  []core.Violation `json:"samples,omitempty"`
}

// Report is the aggregated, queryable outcome of one validation run.
// Everything in it derives from the violation collection.
type Report struct {
	// RunID and StartedAt identify the run. They are stamped by the
	// orchestrator, not by Build, which stays pure.
	RunID     string    `json:"run_id,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`

	Passed     bool             `json:"passed"`
	Threshold  core.Severity    `json:"threshold"`
	RowCount   int              `json:"row_count"`
	Violations []core.Violation `json:"violations"`

	// Rules holds per-rule summaries: pseudo-rules (schema/config) in
	// first-appearance order, then declared rules in declaration order.
	Rules []RuleSummary `json:"rules"`

	// BySeverity maps severity name to total violation count.
	BySeverity map[string]int `json:"by_severity"`
}

// Build aggregates violations into a Report. The violations slice must
// already be in final order: structural violations first, then each
// rule's violations in declaration order. Declared rules appear in the
// summary even with zero violations; rule IDs seen only in the violation
// stream (schema/config pseudo-rules) get summaries in first-appearance
// order ahead of the declared rules.
func Build(violations []core.Violation, declared []*rules.Rule, opts Options) *Report {
	threshold := opts.Threshold
	sampleSize := opts.SampleSize
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	declaredIDs := make(map[string]*rules.Rule, len(declared))
	for _, r := range declared {
		declaredIDs[r.ID] = r
	}

	// Group violations per rule ID, keeping first-appearance order for
	// IDs outside the declared set.
	byRule := make(map[string][]core.Violation)
	var pseudoOrder []string
	bySeverity := make(map[string]int)
	passed := true

	for _, v := range violations {
		if _, known := byRule[v.RuleID]; !known {
			if _, isDeclared := declaredIDs[v.RuleID]; !isDeclared {
				pseudoOrder = append(pseudoOrder, v.RuleID)
			}
		}
		byRule[v.RuleID] = append(byRule[v.RuleID], v)
		bySeverity[v.Severity.String()]++
		if v.Severity >= threshold {
			passed = false
		}
	}

	summaries := make([]RuleSummary, 0, len(pseudoOrder)+len(declared))
	for _, id := range pseudoOrder {
		vs := byRule[id]
		summaries = append(summaries, RuleSummary{
			RuleID:   id,
			Severity: maxSeverity(vs),
			Count:    len(vs),
			Passed:   false,
			Samples:  sample(vs, sampleSize),
		})
	}
	for _, r := range declared {
		vs := byRule[r.ID]
		summaries = append(summaries, RuleSummary{
			RuleID:   r.ID,
			Kind:     string(r.Kind),
			Severity: r.Severity,
			Count:    len(vs),
			Passed:   len(vs) == 0,
			Samples:  sample(vs, sampleSize),
		})
	}

	return &Report{
		Passed:     passed,
		Threshold:  threshold,
		RowCount:   opts.RowCount,
		Violations: violations,
		Rules:      summaries,
		BySeverity: bySeverity,
	}
}

// TotalViolations returns the total number of violations.
func (r *Report) TotalViolations() int { return len(r.Violations) }

// CountAtOrAbove returns the number of violations with severity >= s.
func (r *Report) CountAtOrAbove(s core.Severity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity >= s {
			n++
		}
	}
	return n
}

func sample(vs []core.Violation, n int) []core.Violation {
	if len(vs) <= n {
		// Copy so the summary never aliases the caller's slice.
		return append([]core.Violation(nil), vs...)
	}
	return append([]core.Violation(nil), vs[:n]...)
}

func maxSeverity(vs []core.Violation) core.Severity {
	max := core.SeverityInfo
	for _, v := range vs {
		if v.Severity > max {
			max = v.Severity
		}
	}
	return max
}
