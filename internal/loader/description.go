// Package loader reads external inputs into the core's in-memory
// structures: schema and rule-set descriptions from YAML/JSON files, and
// datasets from CSV, JSON, or DuckDB tables. The core never depends on
// these formats; everything crosses the boundary as parsed structures.
package loader

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/leapstack-labs/leapqa/pkg/rules"
	"github.com/leapstack-labs/leapqa/pkg/schema"
)

// loadDescription reads a YAML (or JSON, which YAML subsumes) description
// file into a generic map.
func loadDescription(path string) (map[string]any, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return k.Raw(), nil
}

// LoadSchema parses a schema description file.
func LoadSchema(path string) (*schema.Schema, error) {
	desc, err := loadDescription(path)
	if err != nil {
		return nil, err
	}
	return schema.Parse(desc)
}

// LoadRules parses a rule-set description file.
func LoadRules(path string) (*rules.RuleSet, error) {
	desc, err := loadDescription(path)
	if err != nil {
		return nil, err
	}
	return rules.Parse(desc)
}
