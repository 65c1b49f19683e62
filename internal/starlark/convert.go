package starlark

import (
	"go.starlark.net/starlark"

	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// ToStarlark converts a dataset cell into its Starlark counterpart.
// Null becomes None; times are exposed as their RFC 3339 string form.
func ToStarlark(v dataset.Value) starlark.Value {
	switch v.Kind() {
	case dataset.KindString:
		s, _ := v.AsString()
		return starlark.String(s)
	case dataset.KindInt:
		i, _ := v.AsInt()
		return starlark.MakeInt64(i)
	case dataset.KindFloat:
		f, _ := v.AsFloat()
		return starlark.Float(f)
	case dataset.KindBool:
		b, _ := v.AsBool()
		return starlark.Bool(b)
	case dataset.KindTime:
		return starlark.String(v.Format())
	default:
		return starlark.None
	}
}

// RowGlobals builds the bindings for one row: every column is bound by
// name, the whole row is reachable as the dict "row", and "idx" carries
// the zero-based row index. Column names that collide with "row" or
// "idx" stay reachable through the dict.
func RowGlobals(row map[string]dataset.Value, idx int) starlark.StringDict {
	globals := make(starlark.StringDict, len(row)+2)
	rowDict := starlark.NewDict(len(row))

	for name, v := range row {
		sv := ToStarlark(v)
		_ = rowDict.SetKey(starlark.String(name), sv)
		if name == "row" || name == "idx" {
			continue
		}
		globals[name] = sv
	}
	globals["row"] = rowDict
	globals["idx"] = starlark.MakeInt(idx)
	return globals
}
