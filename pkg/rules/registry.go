package rules

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

// EvalFunc is the pure evaluation function for one rule kind. It consumes
// a read-only dataset and a parsed rule and produces the violations found.
type EvalFunc func(ds *dataset.Dataset, r *Rule) []core.Violation

// ParamsFunc builds and validates the kind-specific parameter struct from
// the raw description. Anything that can fail at evaluation time but is
// knowable up front (an invalid regex, a malformed expression) must fail
// here instead, so configuration errors surface before any dataset is
// touched.
type ParamsFunc func(raw map[string]any) (any, error)

// Definition is a data-driven rule-kind definition. Kinds are stateless;
// all context reaches the evaluator via its parameters.
type Definition struct {
	Kind            Kind
	Description     string
	DefaultSeverity core.Severity

	// MinColumns/MaxColumns bound the number of target columns.
	// Dataset-wide kinds use 0/0.
	MinColumns int
	MaxColumns int

	// RequiredParams/OptionalParams document the parameter surface.
	RequiredParams []string
	OptionalParams []string

	ParseParams ParamsFunc
	Evaluate    EvalFunc
}

// Info returns the definition's metadata as a DTO.
func (d *Definition) Info() core.RuleInfo {
	return core.RuleInfo{
		Kind:            string(d.Kind),
		Description:     d.Description,
		DefaultSeverity: d.DefaultSeverity,
		RequiredParams:  d.RequiredParams,
		OptionalParams:  d.OptionalParams,
		DatasetWide:     d.MaxColumns == 0,
	}
}

// globalRegistry is the single global registry for all rule kinds.
var globalRegistry = &registry{
	kinds: make(map[Kind]*Definition),
}

type registry struct {
	mu    sync.RWMutex
	kinds map[Kind]*Definition
}

// Register adds a rule-kind definition to the global registry.
// Call this from init() functions in per-kind files.
func Register(def Definition) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.kinds[def.Kind] = &def
}

// Lookup returns the definition for a kind tag. Unknown kinds return
// false; parsing fails closed on them.
func Lookup(kind Kind) (*Definition, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	def, ok := globalRegistry.kinds[kind]
	return def, ok
}

// Kinds returns all registered definitions sorted by kind tag.
func Kinds() []*Definition {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make([]*Definition, 0, len(globalRegistry.kinds))
	for _, def := range globalRegistry.kinds {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
