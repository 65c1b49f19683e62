package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func init() {
	Register(Definition{
		Kind:            KindUniqueness,
		Description:     "Values (or multi-column tuples) must be unique; every occurrence beyond the first is a violation.",
		DefaultSeverity: core.SeverityError,
		MinColumns:      1,
		MaxColumns:      8,
		ParseParams:     parseNoParams,
		Evaluate:        evalUniqueness,
	})
	Register(Definition{
		Kind:            KindUniqueFraction,
		Description:     "The fraction of distinct values in the column must meet a minimum.",
		DefaultSeverity: core.SeverityWarning,
		MinColumns:      1,
		MaxColumns:      1,
		RequiredParams:  []string{"min_fraction"},
		ParseParams:     parseUniqueFractionParams,
		Evaluate:        evalUniqueFraction,
	})
}

// groupKey builds the duplicate-counting key for one row across the
// rule's target columns. Values are length-prefixed and nulls tagged so
// distinct tuples never share a key: ("a|b","c") and ("a","b|c") stay
// apart, as do a real null and the literal string "<null>". Nulls
// participate: duplicate nulls are duplicates.
func groupKey(ds *dataset.Dataset, columns []string, row int) string {
	var b strings.Builder
	for _, col := range columns {
		v, _ := ds.Value(row, col)
		if v.IsNull() {
			b.WriteString("n;")
			continue
		}
		s := v.Format()
		b.WriteByte('v')
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
		b.WriteByte(';')
	}
	return b.String()
}

// groupLabel is the display form of a duplicate group: values joined
// with "|", nulls as "<null>". Only groupKey decides group membership;
// the label is for messages.
func groupLabel(ds *dataset.Dataset, columns []string, row int) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		v, _ := ds.Value(row, col)
		if v.IsNull() {
			parts[i] = "<null>"
			continue
		}
		parts[i] = v.Format()
	}
	return strings.Join(parts, "|")
}

// evalUniqueness reports one violation per duplicate-holding row beyond
// the first occurrence, grouped by duplicate value so the report can show
// group size.
func evalUniqueness(ds *dataset.Dataset, r *Rule) []core.Violation {
	for _, col := range r.Columns {
		if !ds.HasColumn(col) {
			return nil
		}
	}

	counts := make(map[string]int, ds.NumRows())
	for i := 0; i < ds.NumRows(); i++ {
		counts[groupKey(ds, r.Columns, i)]++
	}

	label := r.ColumnLabel()
	seen := make(map[string]bool)
	var out []core.Violation
	for i := 0; i < ds.NumRows(); i++ {
		key := groupKey(ds, r.Columns, i)
		if counts[key] < 2 {
			continue
		}
		if !seen[key] {
			// First occurrence anchors the group and is not a violation.
			seen[key] = true
			continue
		}
		group := groupLabel(ds, r.Columns, i)
		v, _ := ds.Value(i, r.Columns[0])
		out = append(out, core.Violation{
			RuleID:    r.ID,
			Severity:  r.Severity,
			Column:    label,
			Row:       i,
			Message:   fmt.Sprintf("duplicate value %q (group of %d)", group, counts[key]),
			Value:     v.Go(),
			Group:     group,
			GroupSize: counts[key],
		})
	}
	sortViolations(out)
	return out
}

type uniqueFractionParams struct {
	MinFraction *float64 `mapstructure:"min_fraction"`
}

func parseUniqueFractionParams(raw map[string]any) (any, error) {
	var p uniqueFractionParams
	if err := decodeParams(raw, &p); err != nil {
		return nil, err
	}
	if p.MinFraction == nil {
		return nil, fmt.Errorf("missing required param \"min_fraction\"")
	}
	if *p.MinFraction < 0 || *p.MinFraction > 1 {
		return nil, fmt.Errorf("min_fraction %v is outside [0, 1]", *p.MinFraction)
	}
	return &p, nil
}

// evalUniqueFraction emits a single dataset-wide violation when the
// distinct fraction falls strictly below the minimum. Nulls count as one
// distinct value.
func evalUniqueFraction(ds *dataset.Dataset, r *Rule) []core.Violation {
	p := r.Params.(*uniqueFractionParams)
	column := r.Columns[0]
	values, ok := ds.Column(column)
	if !ok || len(values) == 0 {
		return nil
	}

	// Tagged keys keep a real null apart from the literal string "<null>".
	distinct := make(map[string]bool, len(values))
	for _, v := range values {
		if v.IsNull() {
			distinct["n"] = true
			continue
		}
		distinct["v"+v.Format()] = true
	}
	fraction := float64(len(distinct)) / float64(len(values))
	if fraction >= *p.MinFraction {
		return nil
	}
	return []core.Violation{{
		RuleID:   r.ID,
		Severity: r.Severity,
		Column:   column,
		Row:      core.NoRow,
		Message: fmt.Sprintf("distinct fraction %s is below minimum %s (%d distinct of %d rows)",
			formatFloat(fraction), formatFloat(*p.MinFraction), len(distinct), len(values)),
		Value: fraction,
	}}
}
