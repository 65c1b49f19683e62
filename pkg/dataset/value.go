package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// ValueKind identifies the dynamic type of a cell value.
type ValueKind int

// Cell value kinds.
const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
)

// String returns the string representation of the kind.
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a single typed cell. The zero value is null.
// Values are immutable; all accessors are read-only.
type Value struct {
	kind ValueKind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time returns a time value.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind returns the dynamic kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the underlying string and true if the value is a string.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// AsInt returns the underlying integer and true if the value is an integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// AsFloat returns the value as a float64 and true if the value is numeric
// (integer or float).
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsBool returns the underlying bool and true if the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsTime returns the underlying time and true if the value is a time.
func (v Value) AsTime() (time.Time, bool) {
	if v.kind == KindTime {
		return v.t, true
	}
	return time.Time{}, false
}

// Go returns the value as a native Go value (nil for null).
func (v Value) Go() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	default:
		return nil
	}
}

// Format returns the display form of the value. Null formats as the
// empty string; times format as RFC 3339.
func (v Value) Format() string {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return false
	}
}

// FromGo converts a native Go value into a Value. Supported types:
// nil, string, bool, all integer widths, float32/64, and time.Time.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int8:
		return Int(int64(val)), nil
	case int16:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint:
		return Int(int64(val)), nil
	case uint8:
		return Int(int64(val)), nil
	case uint16:
		return Int(int64(val)), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case time.Time:
		return Time(val), nil
	case []byte:
		return String(string(val)), nil
	default:
		return Null(), fmt.Errorf("unsupported cell type %T", v)
	}
}
