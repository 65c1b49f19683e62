package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
	"github.com/leapstack-labs/leapqa/pkg/rules"
	"github.com/leapstack-labs/leapqa/pkg/schema"
)

// parseSet decodes a rule-set description the way a loader would hand it over.
func parseSet(t *testing.T, specs ...map[string]any) *rules.RuleSet {
	t.Helper()
	raw := make([]any, len(specs))
	for i, s := range specs {
		raw[i] = s
	}
	set, err := rules.Parse(map[string]any{"rules": raw})
	require.NoError(t, err)
	return set
}

// parseRule parses a single rule description.
func parseRule(t *testing.T, spec map[string]any) *rules.Rule {
	t.Helper()
	set := parseSet(t, spec)
	require.Equal(t, 1, set.Len())
	return set.Rules()[0]
}

// mustDataset builds a dataset from rows of already-typed values.
func mustDataset(t *testing.T, columns []string, rows ...[]dataset.Value) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(columns)
	require.NoError(t, err)
	for _, row := range rows {
		require.NoError(t, ds.AppendRow(row...))
	}
	return ds
}

func TestParseValidRule(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":     "age-range",
		"kind":   "numeric-range",
		"column": "age",
		"params": map[string]any{"min": 0.0, "max": 120.0},
	})

	assert.Equal(t, "age-range", r.ID)
	assert.Equal(t, rules.KindNumericRange, r.Kind)
	assert.Equal(t, []string{"age"}, r.Columns)
	assert.Equal(t, core.SeverityError, r.Severity) // kind default
}

func TestParseSeverityOverride(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":       "age-range",
		"kind":     "numeric-range",
		"column":   "age",
		"severity": "critical",
		"params":   map[string]any{"min": 0.0},
	})
	assert.Equal(t, core.SeverityCritical, r.Severity)
}

func TestParseFailsClosed(t *testing.T) {
	tests := []struct {
		name       string
		spec       map[string]any
		wantReason string
	}{
		{
			"unknown kind",
			map[string]any{"id": "r1", "kind": "fuzzy-match", "column": "x"},
			`unknown rule kind "fuzzy-match"`,
		},
		{
			"missing id",
			map[string]any{"kind": "non-null", "column": "x"},
			"missing id",
		},
		{
			"unknown severity",
			map[string]any{"id": "r1", "kind": "non-null", "column": "x", "severity": "fatal"},
			`unknown severity "fatal"`,
		},
		{
			"invalid regex at parse time",
			map[string]any{"id": "r1", "kind": "regex-match", "column": "x",
				"params": map[string]any{"pattern": "[unclosed"}},
			"invalid pattern",
		},
		{
			"missing regex pattern",
			map[string]any{"id": "r1", "kind": "regex-match", "column": "x"},
			`missing required param "pattern"`,
		},
		{
			"numeric range without bounds",
			map[string]any{"id": "r1", "kind": "numeric-range", "column": "x",
				"params": map[string]any{}},
			`at least one of "min" and "max" is required`,
		},
		{
			"numeric range min above max",
			map[string]any{"id": "r1", "kind": "numeric-range", "column": "x",
				"params": map[string]any{"min": 10.0, "max": 1.0}},
			"min 10 exceeds max 1",
		},
		{
			"allowed values without values",
			map[string]any{"id": "r1", "kind": "allowed-values", "column": "x"},
			`missing required param "values"`,
		},
		{
			"null fraction out of range",
			map[string]any{"id": "r1", "kind": "null-fraction-max", "column": "x",
				"params": map[string]any{"max_fraction": 1.5}},
			"outside [0, 1]",
		},
		{
			"unknown param key",
			map[string]any{"id": "r1", "kind": "non-null", "column": "x",
				"params": map[string]any{"bogus": true}},
			"kind takes no params",
		},
		{
			"column and columns both set",
			map[string]any{"id": "r1", "kind": "uniqueness", "column": "a",
				"columns": []any{"a", "b"}},
			"set either column or columns, not both",
		},
		{
			"dataset-wide kind with a column",
			map[string]any{"id": "r1", "kind": "row-count-min", "column": "x",
				"params": map[string]any{"min": 1}},
			"dataset-wide and takes no target column",
		},
		{
			"missing target column",
			map[string]any{"id": "r1", "kind": "non-null"},
			"requires at least 1 target column",
		},
		{
			"bad expression syntax",
			map[string]any{"id": "r1", "kind": "custom-expression",
				"params": map[string]any{"expression": "age >"}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rules.Parse(map[string]any{"rules": []any{tt.spec}})
			require.Error(t, err)
			var perr *rules.ParseError
			require.ErrorAs(t, err, &perr)
			if tt.wantReason != "" {
				assert.Contains(t, err.Error(), tt.wantReason)
			}
		})
	}
}

func TestParseDuplicateID(t *testing.T) {
	_, err := rules.Parse(map[string]any{"rules": []any{
		map[string]any{"id": "r1", "kind": "non-null", "column": "a"},
		map[string]any{"id": "r1", "kind": "non-null", "column": "b"},
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rule id")
}

func TestParseMissingRulesSection(t *testing.T) {
	_, err := rules.Parse(map[string]any{"version": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `missing "rules" section`)
}

func TestParsePreservesDeclarationOrder(t *testing.T) {
	set := parseSet(t,
		map[string]any{"id": "z", "kind": "non-null", "column": "a"},
		map[string]any{"id": "a", "kind": "non-null", "column": "a"},
		map[string]any{"id": "m", "kind": "non-null", "column": "a"},
	)

	var ids []string
	for _, r := range set.Rules() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestCheckColumns(t *testing.T) {
	sch, err := schema.Parse(map[string]any{
		"columns": map[string]any{
			"email": map[string]any{"type": "string"},
		},
	})
	require.NoError(t, err)

	ok := parseSet(t, map[string]any{"id": "email-ok", "kind": "non-null", "column": "email"})
	assert.NoError(t, ok.CheckColumns(sch))

	bad := parseSet(t, map[string]any{"id": "ssn-ok", "kind": "non-null", "column": "ssn"})
	err = bad.CheckColumns(sch)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `rule "ssn-ok"`)
	assert.Contains(t, err.Error(), `"ssn"`)
}

func TestKindsRegistry(t *testing.T) {
	defs := rules.Kinds()
	require.NotEmpty(t, defs)

	tags := make(map[rules.Kind]bool, len(defs))
	for i, def := range defs {
		tags[def.Kind] = true
		if i > 0 {
			assert.Less(t, defs[i-1].Kind, def.Kind, "kinds must be sorted")
		}
	}
	for _, want := range []rules.Kind{
		rules.KindRegexMatch, rules.KindNumericRange, rules.KindAllowedValues,
		rules.KindNullFractionMax, rules.KindUniqueness, rules.KindUniqueFraction,
		rules.KindNonNull, rules.KindRowCountMin, rules.KindRowCountMax,
		rules.KindLengthRange, rules.KindCustomExpression,
	} {
		assert.True(t, tags[want], "kind %s not registered", want)
	}

	_, found := rules.Lookup("no-such-kind")
	assert.False(t, found)
}
