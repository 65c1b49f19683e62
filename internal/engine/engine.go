// Package engine orchestrates one validation run: schema checks, rule
// evaluation, and aggregation into a report. The engine owns the only
// mutable state of a run (the accumulating violation list); datasets,
// schemas, and rule sets are read-only throughout.
package engine

import (
	"log/slog"
	"sync"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/report"
)

// State tracks the orchestrator's progress through a run.
type State int

// Run states. Failed is reachable only from SchemaCheck, and only for
// configuration errors; a dataset merely failing structural checks
// produces violations, not a pipeline failure.
const (
	StateInit State = iota
	StateSchemaCheck
	StateRuleEvaluation
	StateAggregation
	StateDone
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSchemaCheck:
		return "schema-check"
	case StateRuleEvaluation:
		return "rule-evaluation"
	case StateAggregation:
		return "aggregation"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Config holds engine configuration. Pass explicitly into New so the same
// process can validate multiple datasets with different configurations.
type Config struct {
	// Threshold is the severity at or above which the report fails.
	// Nil means the documented default, error; set core.SeverityInfo
	// explicitly to fail on any violation at all.
	Threshold *core.Severity

	// SampleSize caps sampled violations per rule summary.
	SampleSize int

	// Strict makes unknown dataset columns structural violations and
	// rules targeting unknown schema columns configuration errors.
	Strict bool

	// Concurrency is the number of rules evaluated in parallel.
	// Values below 2 mean sequential evaluation.
	Concurrency int

	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Engine runs validation pipelines. Safe for sequential reuse; each Run
// owns its own violation accumulation.
type Engine struct {
	cfg       Config
	threshold core.Severity
	logger    *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates an engine. Zero-value options fall back to the documented
// defaults (threshold error, sample size 5, sequential evaluation).
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = report.DefaultSampleSize
	}
	threshold := report.DefaultThreshold
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	return &Engine{
		cfg:       cfg,
		threshold: threshold,
		logger:    logger,
		state:     StateInit,
	}
}

// State returns the engine's current run state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
	e.logger.Debug("engine state", "state", s.String())
}
