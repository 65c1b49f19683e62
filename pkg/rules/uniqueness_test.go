package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func TestUniquenessDuplicatesBeyondFirst(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":     "id-unique",
		"kind":   "uniqueness",
		"column": "id",
	})

	// [1, 2, 2, 3, 2]: rows 2 and 4 violate, row 1 anchors the group
	ds := mustDataset(t, []string{"id"},
		[]dataset.Value{dataset.Int(1)},
		[]dataset.Value{dataset.Int(2)},
		[]dataset.Value{dataset.Int(2)},
		[]dataset.Value{dataset.Int(3)},
		[]dataset.Value{dataset.Int(2)},
	)

	violations := r.Evaluate(ds)
	require.Len(t, violations, 2)

	assert.Equal(t, 2, violations[0].Row)
	assert.Equal(t, 4, violations[1].Row)
	for _, v := range violations {
		assert.Equal(t, "2", v.Group)
		assert.Equal(t, 3, v.GroupSize)
		assert.Equal(t, `duplicate value "2" (group of 3)`, v.Message)
	}
}

func TestUniquenessAllDistinct(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":     "id-unique",
		"kind":   "uniqueness",
		"column": "id",
	})

	ds := mustDataset(t, []string{"id"},
		[]dataset.Value{dataset.Int(1)},
		[]dataset.Value{dataset.Int(2)},
		[]dataset.Value{dataset.Int(3)},
	)
	assert.Empty(t, r.Evaluate(ds))
}

func TestUniquenessNullsAreDuplicates(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":     "id-unique",
		"kind":   "uniqueness",
		"column": "id",
	})

	ds := mustDataset(t, []string{"id"},
		[]dataset.Value{dataset.Null()},
		[]dataset.Value{dataset.Int(1)},
		[]dataset.Value{dataset.Null()},
	)

	violations := r.Evaluate(ds)
	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Row)
	assert.Equal(t, "<null>", violations[0].Group)
}

func TestUniquenessNullDistinctFromNullToken(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":     "id-unique",
		"kind":   "uniqueness",
		"column": "id",
	})

	// a real null and the literal string "<null>" are different values
	ds := mustDataset(t, []string{"id"},
		[]dataset.Value{dataset.Null()},
		[]dataset.Value{dataset.String("<null>")},
	)
	assert.Empty(t, r.Evaluate(ds))
}

func TestUniquenessMultiColumn(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":      "pair-unique",
		"kind":    "uniqueness",
		"columns": []any{"first", "last"},
	})

	ds := mustDataset(t, []string{"first", "last"},
		[]dataset.Value{dataset.String("ada"), dataset.String("lovelace")},
		[]dataset.Value{dataset.String("ada"), dataset.String("byron")}, // differs in one column
		[]dataset.Value{dataset.String("ada"), dataset.String("lovelace")},
	)

	violations := r.Evaluate(ds)
	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Row)
	assert.Equal(t, "first,last", violations[0].Column)
	assert.Equal(t, "ada|lovelace", violations[0].Group)
	assert.Equal(t, 2, violations[0].GroupSize)
}

func TestUniquenessMultiColumnTuplesNeverCollide(t *testing.T) {
	r := parseRule(t, map[string]any{
		"id":      "pair-unique",
		"kind":    "uniqueness",
		"columns": []any{"first", "last"},
	})

	// ("a|b","c") and ("a","b|c") render identically but are distinct tuples
	ds := mustDataset(t, []string{"first", "last"},
		[]dataset.Value{dataset.String("a|b"), dataset.String("c")},
		[]dataset.Value{dataset.String("a"), dataset.String("b|c")},
	)
	assert.Empty(t, r.Evaluate(ds))

	// a null cell and an empty string are distinct too
	ds = mustDataset(t, []string{"first", "last"},
		[]dataset.Value{dataset.Null(), dataset.String("x")},
		[]dataset.Value{dataset.String(""), dataset.String("x")},
	)
	assert.Empty(t, r.Evaluate(ds))
}
