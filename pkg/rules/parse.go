package rules

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/leapqa/pkg/core"
)

// ParseError reports a malformed rule-set description. Rule parse
// failures are fatal configuration errors: they abort validation before
// any dataset is touched.
type ParseError struct {
	RuleID string
	Reason string
}

func (e *ParseError) Error() string {
	if e.RuleID != "" {
		return fmt.Sprintf("rules: rule %q: %s", e.RuleID, e.Reason)
	}
	return fmt.Sprintf("rules: %s", e.Reason)
}

// ruleSpec is the wire form of one rule description.
type ruleSpec struct {
	ID       string         `mapstructure:"id"`
	Kind     string         `mapstructure:"kind"`
	Column   string         `mapstructure:"column"`
	Columns  []string       `mapstructure:"columns"`
	Severity string         `mapstructure:"severity"`
	Params   map[string]any `mapstructure:"params"`
}

// Parse builds an ordered RuleSet from a generic description of the form
//
//	rules:
//	  - id: age-range
//	    kind: numeric-range
//	    column: age
//	    severity: error
//	    params: {min: 0, max: 120}
//
// already decoded into a map (typically by koanf). Unknown kinds, missing
// or malformed parameters, duplicate IDs, and invalid severities all fail
// closed with a *ParseError.
func Parse(description map[string]any) (*RuleSet, error) {
	raw, ok := description["rules"]
	if !ok {
		return nil, &ParseError{Reason: "missing \"rules\" section"}
	}

	var specs []ruleSpec
	if err := mapstructure.Decode(raw, &specs); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed rules section: %v", err)}
	}

	set := &RuleSet{rules: make([]*Rule, 0, len(specs))}
	seen := make(map[string]bool, len(specs))

	for i, spec := range specs {
		if spec.ID == "" {
			return nil, &ParseError{Reason: fmt.Sprintf("rule %d: missing id", i)}
		}
		if seen[spec.ID] {
			return nil, &ParseError{RuleID: spec.ID, Reason: "duplicate rule id"}
		}
		seen[spec.ID] = true

		r, err := parseRule(spec)
		if err != nil {
			return nil, err
		}
		set.rules = append(set.rules, r)
	}
	return set, nil
}

func parseRule(spec ruleSpec) (*Rule, error) {
	def, ok := Lookup(Kind(spec.Kind))
	if !ok {
		return nil, &ParseError{RuleID: spec.ID, Reason: fmt.Sprintf("unknown rule kind %q", spec.Kind)}
	}

	columns := spec.Columns
	if spec.Column != "" {
		if len(columns) > 0 {
			return nil, &ParseError{RuleID: spec.ID, Reason: "set either column or columns, not both"}
		}
		columns = []string{spec.Column}
	}
	if len(columns) < def.MinColumns {
		return nil, &ParseError{RuleID: spec.ID,
			Reason: fmt.Sprintf("kind %q requires at least %d target column(s)", spec.Kind, def.MinColumns)}
	}
	if len(columns) > def.MaxColumns {
		if def.MaxColumns == 0 {
			return nil, &ParseError{RuleID: spec.ID,
				Reason: fmt.Sprintf("kind %q is dataset-wide and takes no target column", spec.Kind)}
		}
		return nil, &ParseError{RuleID: spec.ID,
			Reason: fmt.Sprintf("kind %q takes at most %d target column(s)", spec.Kind, def.MaxColumns)}
	}

	severity := def.DefaultSeverity
	if spec.Severity != "" {
		parsed, ok := core.ParseSeverity(spec.Severity)
		if !ok {
			return nil, &ParseError{RuleID: spec.ID, Reason: fmt.Sprintf("unknown severity %q", spec.Severity)}
		}
		severity = parsed
	}

	params, err := def.ParseParams(spec.Params)
	if err != nil {
		return nil, &ParseError{RuleID: spec.ID, Reason: err.Error()}
	}

	return &Rule{
		ID:       spec.ID,
		Kind:     def.Kind,
		Columns:  columns,
		Severity: severity,
		Params:   params,
		def:      def,
	}, nil
}

// decodeParams decodes raw parameters into a typed struct, rejecting keys
// the kind does not declare.
func decodeParams(raw map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("malformed params: %w", err)
	}
	return nil
}
