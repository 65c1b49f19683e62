package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// datetimeLayouts are the accepted textual datetime forms, tried in order.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoercedView returns a best-effort view of the dataset with every schema
// column coerced to its declared logical type, plus one coercion warning
// per column that could not be fully converted. Cells that resist
// coercion keep their original value so rules still see something to
// report on. The input dataset is never modified.
func (s *Schema) CoercedView(ds *dataset.Dataset) (*dataset.Dataset, []core.Violation) {
	view := ds
	var warnings []core.Violation

	for _, col := range s.columns {
		values, ok := ds.Column(col.Name)
		if !ok {
			continue
		}

		changed := false
		failed := 0
		coerced := make([]dataset.Value, len(values))
		for i, v := range values {
			if v.IsNull() {
				coerced[i] = v
				continue
			}
			cv, ok := coerceValue(v, col.Type)
			if !ok {
				coerced[i] = v
				failed++
				continue
			}
			if !cv.Equal(v) {
				changed = true
			}
			coerced[i] = cv
		}

		if failed > 0 {
			warnings = append(warnings, core.Violation{
				RuleID:   RuleCoercion,
				Severity: core.SeverityWarning,
				Column:   col.Name,
				Row:      core.NoRow,
				Message: fmt.Sprintf("column %q: %d value(s) could not be coerced to %s; rules see the raw values",
					col.Name, failed, col.Type),
			})
		}
		if changed {
			next, err := view.WithColumn(col.Name, coerced)
			if err == nil {
				view = next
			}
		}
	}
	return view, warnings
}

// coerceValue converts a non-null value to the given logical type.
// Returns false when the value cannot represent the type.
func coerceValue(v dataset.Value, t LogicalType) (dataset.Value, bool) {
	switch t {
	case TypeString, TypeCategorical:
		return dataset.String(v.Format()), true

	case TypeInteger:
		switch v.Kind() {
		case dataset.KindInt:
			return v, true
		case dataset.KindFloat:
			f, _ := v.AsFloat()
			if f == float64(int64(f)) {
				return dataset.Int(int64(f)), true
			}
			return v, false
		case dataset.KindString:
			s, _ := v.AsString()
			if i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return dataset.Int(i), true
			}
			return v, false
		default:
			return v, false
		}

	case TypeFloat:
		switch v.Kind() {
		case dataset.KindFloat:
			return v, true
		case dataset.KindInt:
			f, _ := v.AsFloat()
			return dataset.Float(f), true
		case dataset.KindString:
			s, _ := v.AsString()
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return dataset.Float(f), true
			}
			return v, false
		default:
			return v, false
		}

	case TypeBoolean:
		switch v.Kind() {
		case dataset.KindBool:
			return v, true
		case dataset.KindString:
			s, _ := v.AsString()
			if b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(s))); err == nil {
				return dataset.Bool(b), true
			}
			return v, false
		default:
			return v, false
		}

	case TypeDatetime:
		switch v.Kind() {
		case dataset.KindTime:
			return v, true
		case dataset.KindString:
			s, _ := v.AsString()
			for _, layout := range datetimeLayouts {
				if ts, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
					return dataset.Time(ts), true
				}
			}
			return v, false
		default:
			return v, false
		}

	default:
		return v, false
	}
}
