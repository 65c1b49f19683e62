// Package rules provides the declarative rule model and the evaluator
// for each rule kind.
//
// Rule kinds are registered in a global registry from init() functions in
// per-kind files; parsing a rule-set description dispatches on the kind
// tag and fails closed on anything unregistered. Each evaluator is a pure
// function over a read-only dataset: no shared mutable state, so rules
// can be evaluated in any order or concurrently.
//
// Rule kinds in this package:
//   - regex-match: string values must match (or not match) a pattern
//   - numeric-range: numeric values must fall inside inclusive bounds
//   - allowed-values: values must belong to a declared set
//   - null-fraction-max: column-wide null fraction must not exceed a threshold
//   - uniqueness: duplicate values beyond the first occurrence
//   - unique-fraction: column-wide distinct fraction must meet a minimum
//   - non-null: no null values
//   - row-count-min / row-count-max: dataset-wide row count bounds
//   - length-range: string lengths must fall inside bounds
//   - custom-expression: per-row Starlark assertion
package rules
