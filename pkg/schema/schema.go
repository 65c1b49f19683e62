// Package schema models the declared shape of a dataset: typed column
// definitions parsed from an external description, plus structural
// validation of a dataset against those definitions.
//
// The package never depends on the source description format; loaders
// decode YAML/JSON into the generic description map this package consumes.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// =============================================================================
// Logical types
// =============================================================================

// LogicalType is the declared type of a column. The enumeration is closed;
// parsing rejects anything outside it.
type LogicalType int

// Supported logical types.
const (
	TypeString LogicalType = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeDatetime
	TypeCategorical
)

// String returns the string representation of the logical type.
func (t LogicalType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeDatetime:
		return "datetime"
	case TypeCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// ParseLogicalType converts a string to a LogicalType.
func ParseLogicalType(s string) (LogicalType, bool) {
	switch strings.ToLower(s) {
	case "string", "str", "text":
		return TypeString, true
	case "integer", "int":
		return TypeInteger, true
	case "float", "double", "number":
		return TypeFloat, true
	case "boolean", "bool":
		return TypeBoolean, true
	case "datetime", "date", "timestamp":
		return TypeDatetime, true
	case "categorical", "category":
		return TypeCategorical, true
	default:
		return TypeString, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t LogicalType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// =============================================================================
// Column and Schema
// =============================================================================

// Column is a single typed column definition. Immutable once parsed.
type Column struct {
	Name          string      `json:"name"`
	Type          LogicalType `json:"type"`
	Nullable      bool        `json:"nullable"`
	AllowedValues []string    `json:"allowed_values,omitempty"`
	Min           *float64    `json:"min,omitempty"`
	Max           *float64    `json:"max,omitempty"`
}

// Schema is an ordered, immutable collection of column definitions.
type Schema struct {
	columns []Column
	index   map[string]int
}

// Columns returns the column definitions in schema order.
// The returned slice must not be modified.
func (s *Schema) Columns() []Column { return s.columns }

// Column returns the definition of the named column.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.index[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

// HasColumn reports whether the schema declares the named column.
func (s *Schema) HasColumn(name string) bool {
	_, ok := s.index[name]
	return ok
}

// =============================================================================
// Parsing
// =============================================================================

// ParseError reports a malformed schema description. Schema parse
// failures are fatal configuration errors: they abort validation before
// any dataset is touched.
type ParseError struct {
	Column string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema: column %q: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("schema: %s", e.Reason)
}

// columnSpec is the wire form of one column description.
type columnSpec struct {
	Name     string   `mapstructure:"name"` // list form only
	Type     string   `mapstructure:"type"`
	Nullable bool     `mapstructure:"nullable"`
	Values   []string `mapstructure:"values"`
	Min      *float64 `mapstructure:"min"`
	Max      *float64 `mapstructure:"max"`
}

// Parse builds a Schema from a generic description already decoded into a
// map (typically by koanf). Two column layouts are accepted:
//
//	columns:
//	  age:   {type: integer, nullable: false, min: 0, max: 120}
//	  label: {type: categorical, values: [positive, negative]}
//
// or the ordered list form:
//
//	columns:
//	  - {name: age, type: integer, min: 0, max: 120}
//	  - {name: label, type: categorical, values: [positive, negative]}
//
// The map form is ordered by lexical column name so parsing is
// deterministic regardless of map iteration order.
func Parse(description map[string]any) (*Schema, error) {
	raw, ok := description["columns"]
	if !ok {
		return nil, &ParseError{Reason: "missing \"columns\" section"}
	}

	specs, err := decodeColumnSpecs(raw)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, &ParseError{Reason: "schema declares no columns"}
	}

	s := &Schema{
		columns: make([]Column, 0, len(specs)),
		index:   make(map[string]int, len(specs)),
	}
	for _, spec := range specs {
		if spec.Name == "" {
			return nil, &ParseError{Reason: "empty column name"}
		}
		if _, dup := s.index[spec.Name]; dup {
			return nil, &ParseError{Column: spec.Name, Reason: "duplicate column name"}
		}
		lt, ok := ParseLogicalType(spec.Type)
		if !ok {
			return nil, &ParseError{Column: spec.Name, Reason: fmt.Sprintf("unknown logical type %q", spec.Type)}
		}
		if lt == TypeCategorical && len(spec.Values) == 0 {
			return nil, &ParseError{Column: spec.Name, Reason: "categorical column requires a values list"}
		}
		if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
			return nil, &ParseError{Column: spec.Name, Reason: fmt.Sprintf("min %v exceeds max %v", *spec.Min, *spec.Max)}
		}
		s.index[spec.Name] = len(s.columns)
		s.columns = append(s.columns, Column{
			Name:          spec.Name,
			Type:          lt,
			Nullable:      spec.Nullable,
			AllowedValues: spec.Values,
			Min:           spec.Min,
			Max:           spec.Max,
		})
	}
	return s, nil
}

// decodeColumnSpecs decodes either column layout into an ordered spec list.
func decodeColumnSpecs(raw any) ([]columnSpec, error) {
	if _, isList := raw.([]any); isList {
		var specs []columnSpec
		if err := mapstructure.Decode(raw, &specs); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("malformed columns list: %v", err)}
		}
		return specs, nil
	}

	var byName map[string]columnSpec
	if err := mapstructure.Decode(raw, &byName); err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("malformed columns section: %v", err)}
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]columnSpec, 0, len(names))
	for _, name := range names {
		spec := byName[name]
		spec.Name = name
		specs = append(specs, spec)
	}
	return specs, nil
}
