package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapqa/pkg/core"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
	"github.com/leapstack-labs/leapqa/pkg/report"
	"github.com/leapstack-labs/leapqa/pkg/rules"
	"github.com/leapstack-labs/leapqa/pkg/schema"
)

// RuleUnknownColumn is the pseudo-rule ID for lenient-mode rules that
// target columns absent from the schema. In strict mode the same
// condition is a configuration error instead.
const RuleUnknownColumn = "config/unknown-column"

// Run validates the dataset against the schema and rule set and returns
// the aggregated report. The run never aborts because a single rule or
// row fails; only configuration errors (strict-mode rules targeting
// unknown columns, context cancellation) return an error.
func (e *Engine) Run(ctx context.Context, ds *dataset.Dataset, sch *schema.Schema, set *rules.RuleSet) (*report.Report, error) {
	started := time.Now().UTC()
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	// SchemaCheck: configuration errors first, then structural conformance.
	e.setState(StateSchemaCheck)
	if e.cfg.Strict {
		if err := set.CheckColumns(sch); err != nil {
			e.setState(StateFailed)
			return nil, err
		}
	}

	violations := sch.ValidateStructure(ds, e.cfg.Strict)
	coerced, warnings := sch.CoercedView(ds)
	violations = append(violations, warnings...)
	logger.Debug("schema check complete",
		"structural_violations", len(violations),
		"rows", ds.NumRows())

	// RuleEvaluation: every rule runs exactly once, in declaration order
	// slots so the final report is deterministic even under concurrency.
	e.setState(StateRuleEvaluation)
	applicable, skipped := e.partitionRules(sch, set)
	violations = append(violations, skipped...)

	results, err := e.evaluate(ctx, coerced, applicable)
	if err != nil {
		e.setState(StateFailed)
		return nil, err
	}
	for _, vs := range results {
		violations = append(violations, vs...)
	}

	// Aggregation: pure build, then stamp run identity.
	e.setState(StateAggregation)
	rep := report.Build(violations, set.Rules(), report.Options{
		Threshold:  e.threshold,
		SampleSize: e.cfg.SampleSize,
		RowCount:   ds.NumRows(),
	})
	rep.RunID = runID
	rep.StartedAt = started

	e.setState(StateDone)
	logger.Info("validation complete",
		"passed", rep.Passed,
		"violations", rep.TotalViolations(),
		"duration", time.Since(started))
	return rep, nil
}

// partitionRules splits the rule set into rules that can run and, in
// lenient mode, one config violation per rule that targets a column the
// schema does not declare. Such rules are skipped, not evaluated against
// garbage.
func (e *Engine) partitionRules(sch *schema.Schema, set *rules.RuleSet) ([]*rules.Rule, []core.Violation) {
	applicable := make([]*rules.Rule, 0, set.Len())
	var skipped []core.Violation

	for _, r := range set.Rules() {
		unknown := ""
		for _, col := range r.Columns {
			if !sch.HasColumn(col) {
				unknown = col
				break
			}
		}
		if unknown == "" {
			applicable = append(applicable, r)
			continue
		}
		skipped = append(skipped, core.Violation{
			RuleID:   RuleUnknownColumn,
			Severity: core.SeverityError,
			Column:   unknown,
			Row:      core.NoRow,
			Message: fmt.Sprintf("rule %q targets column %q which is not declared in the schema; rule skipped",
				r.ID, unknown),
		})
	}
	return applicable, skipped
}

// evaluate runs all applicable rules, sequentially or across an errgroup,
// and returns per-rule violation lists indexed by declaration order.
func (e *Engine) evaluate(ctx context.Context, ds *dataset.Dataset, applicable []*rules.Rule) ([][]core.Violation, error) {
	results := make([][]core.Violation, len(applicable))

	if e.cfg.Concurrency < 2 {
		for i, r := range applicable {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = e.evalRule(ds, r)
		}
		return results, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, r := range applicable {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.evalRule(ds, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// evalRule invokes one evaluator, converting a panic into a single
// critical "evaluator internal error" violation so one misbehaving rule
// cannot abort the run.
func (e *Engine) evalRule(ds *dataset.Dataset, r *rules.Rule) (out []core.Violation) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Error("evaluator panicked", "rule", r.ID, "panic", rec)
			out = []core.Violation{{
				RuleID:   r.ID,
				Severity: core.SeverityCritical,
				Column:   r.ColumnLabel(),
				Row:      core.NoRow,
				Message:  fmt.Sprintf("evaluator internal error: %v", rec),
			}}
		}
	}()

	out = r.Evaluate(ds)
	e.logger.Debug("rule evaluated", "rule", r.ID, "kind", string(r.Kind), "violations", len(out))
	return out
}
