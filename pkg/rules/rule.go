package rules

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
	"github.com/leapstack-labs/leapqa/pkg/schema"
)

// Kind is the tag identifying a rule's evaluation strategy.
type Kind string

// Registered rule kinds.
const (
	KindRegexMatch       Kind = "regex-match"
	KindNumericRange     Kind = "numeric-range"
	KindAllowedValues    Kind = "allowed-values"
	KindNullFractionMax  Kind = "null-fraction-max"
	KindUniqueness       Kind = "uniqueness"
	KindUniqueFraction   Kind = "unique-fraction"
	KindNonNull          Kind = "non-null"
	KindRowCountMin      Kind = "row-count-min"
	KindRowCountMax      Kind = "row-count-max"
	KindLengthRange      Kind = "length-range"
	KindCustomExpression Kind = "custom-expression"
)

// Rule is one parsed, immutable rule. Rules are independent: no rule may
// reference another rule's result.
type Rule struct {
	// ID is unique within a rule set and stable across runs.
	ID string

	// Kind selects the evaluator.
	Kind Kind

	// Columns are the target column names. Dataset-wide kinds
	// (row-count-min/max) carry none; most kinds carry exactly one.
	Columns []string

	// Severity attached to violations this rule produces.
	Severity core.Severity

	// Params holds the kind-specific parameter struct built at parse time.
	Params any

	def *Definition
}

// ColumnLabel returns the violation column label for this rule: the single
// target column, targets joined with commas, or empty for dataset-wide rules.
func (r *Rule) ColumnLabel() string {
	return strings.Join(r.Columns, ",")
}

// Evaluate runs the rule's evaluator against the dataset and returns the
// violations found, ordered by row index then column name. The dataset is
// never modified.
func (r *Rule) Evaluate(ds *dataset.Dataset) []core.Violation {
	return r.def.Evaluate(ds, r)
}

// Info returns the metadata of the rule's kind.
func (r *Rule) Info() core.RuleInfo {
	return r.def.Info()
}

// RuleSet is an ordered, immutable sequence of parsed rules.
type RuleSet struct {
	rules []*Rule
}

// Rules returns the rules in declaration order.
// The returned slice must not be modified.
func (s *RuleSet) Rules() []*Rule { return s.rules }

// Len returns the number of rules.
func (s *RuleSet) Len() int { return len(s.rules) }

// CheckColumns verifies that every column a rule targets is declared in
// the schema. A rule targeting an unknown column is a configuration
// error, not a data violation.
func (s *RuleSet) CheckColumns(sch *schema.Schema) error {
	for _, r := range s.rules {
		for _, col := range r.Columns {
			if !sch.HasColumn(col) {
				return &ParseError{
					RuleID: r.ID,
					Reason: "targets column \"" + col + "\" which is not declared in the schema",
				}
			}
		}
	}
	return nil
}

// sortViolations orders violations by row index ascending, then by column
// name for multi-column rules. Dataset-wide violations (row = NoRow) sort
// first.
func sortViolations(vs []core.Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].Row != vs[j].Row {
			return vs[i].Row < vs[j].Row
		}
		return vs[i].Column < vs[j].Column
	})
}
