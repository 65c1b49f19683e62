// Package starlark provides the sandboxed Starlark expression evaluator
// behind the custom-expression rule kind. Expressions are compiled once at
// rule-parse time and evaluated per row against row-local bindings only:
// no I/O, no imports, no access to anything outside the row.
package starlark

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Expr is a validated Starlark expression. Compile catches syntax errors
// at rule-parse time so a malformed expression never reaches a dataset.
type Expr struct {
	name string
	src  string
	pool *ThreadPool
}

// Compile parses the expression and returns it ready for evaluation.
// The name is used for error reporting (typically the rule ID).
func Compile(name, src string) (*Expr, error) {
	if src == "" {
		return nil, fmt.Errorf("empty expression")
	}
	if _, err := syntax.ParseExpr(name, src, 0); err != nil {
		return nil, fmt.Errorf("invalid expression: %w", err)
	}
	return &Expr{
		name: name,
		src:  src,
		pool: NewThreadPool(0),
	}, nil
}

// Source returns the expression text.
func (e *Expr) Source() string { return e.src }

// EvalBool evaluates the expression against the given bindings and
// reports its truth value. Runtime failures (division by zero, undefined
// variable) come back as an *EvalError; callers convert them into
// violations rather than aborting the run.
func (e *Expr) EvalBool(globals starlark.StringDict) (bool, error) {
	thread := e.pool.Get(e.name)
	defer e.pool.Put(thread)

	result, err := starlark.Eval(thread, e.name, e.src, globals) //nolint:staticcheck // SA1019: will migrate to EvalOptions later
	if err != nil {
		return false, &EvalError{Name: e.name, Expr: e.src, Message: evalMessage(err)}
	}
	return bool(result.Truth()), nil
}

// evalMessage extracts the useful part of a Starlark error.
func evalMessage(err error) string {
	if ee, ok := err.(*starlark.EvalError); ok {
		return ee.Msg
	}
	return err.Error()
}

// EvalError represents a runtime error during expression evaluation.
type EvalError struct {
	Name    string
	Expr    string
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: error evaluating %q: %s", e.Name, e.Expr, e.Message)
}
