package core

// NoRow marks a violation as dataset-wide rather than tied to a row.
const NoRow = -1

// =============================================================================
// Violation
// =============================================================================

// Violation is a single recorded instance of data failing a rule.
// Violations are immutable facts produced by one evaluator run; they are
// never mutated after creation.
type Violation struct {
	// RuleID identifies the rule (or pseudo-rule such as "schema/missing-column")
	// that produced this violation.
	RuleID string `json:"rule_id"`

	// Severity is the severity the rule carried when it was evaluated.
	Severity Severity `json:"severity"`

	// Column is the offending column, or empty for dataset-wide violations.
	// Multi-column rules join their target columns with commas.
	Column string `json:"column,omitempty"`

	// Row is the zero-based row index, or NoRow for dataset-wide violations.
	Row int `json:"row"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is the sampled value (or values) that triggered the violation.
	Value any `json:"value,omitempty"`

	// Group identifies the duplicate group for uniqueness violations.
	Group string `json:"group,omitempty"`

	// GroupSize is the size of the duplicate group, when Group is set.
	GroupSize int `json:"group_size,omitempty"`
}

// DatasetWide reports whether the violation concerns the dataset as a
// whole rather than a specific row.
func (v Violation) DatasetWide() bool {
	return v.Row == NoRow
}

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a rule kind for documentation/tooling.
// This is a DTO - it carries data without behavior.
type RuleInfo struct {
	Kind            string   `json:"kind"`
	Description     string   `json:"description"`
	DefaultSeverity Severity `json:"default_severity"`
	RequiredParams  []string `json:"required_params,omitempty"`
	OptionalParams  []string `json:"optional_params,omitempty"`
	DatasetWide     bool     `json:"dataset_wide"`
}
