package rules

import (
	"fmt"
	"regexp"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindRegexMatch,
		Description:     "String values must match (or, with fail_on_match, must not match) a regular expression.",
		DefaultSeverity: core.SeverityError,
		MinColumns:      1,
		MaxColumns:      1,
		RequiredParams:  []string{"pattern"},
		OptionalParams:  []string{"fail_on_match"},
		ParseParams:     parseRegexParams,
		Evaluate:        evalRegex,
	})
}

type regexParams struct {
	Pattern     string `mapstructure:"pattern"`
	FailOnMatch bool   `mapstructure:"fail_on_match"`

	re *regexp.Regexp
}

// parseRegexParams compiles the pattern so an invalid regex fails at
// parse time, not at evaluation time.
func parseRegexParams(raw map[string]any) (any, error) {
	var p regexParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.Pattern == "" {
		return nil, fmt.Errorf("missing required param \"pattern\"")
	}
	re, err := regexp.Compile(p.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %v", err)
	}
	p.re = re
	return &p, nil
}

// evalRegex flags rows whose value does not match the pattern (or matches
// it, when fail_on_match is set). Null values are exempt: disallowing
// nulls is the non-null rule's job, not this one's.
func evalRegex(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*regexParams)
	values, ok := ds.Column(r.Columns[0])
	if !ok {
		return nil
	}

	var out []core.Violation
	for i, v := range values {
		if v.IsNull() {
			continue
		}
		text := v.Format()
		if p.re.MatchString(text) != p.FailOnMatch {
			continue
		}
		verb := "does not match"
		if p.FailOnMatch {
			verb = "matches"
		}
		out = append(out, core.Violation{
			RuleID:   r.ID,
			Severity: r.Severity,
			Column:   r.Columns[0],
			Row:      i,
			Message:  fmt.Sprintf("value %q %s pattern %q", text, verb, p.Pattern),
			Value:    v.Go(),
		})
	}
	return out
}
