// Package query evaluates deployment-supplied metadata query expressions
// against a single backend document.
//
// Expressions are written in the backend's query language. The Engine
// interface keeps the concrete evaluator swappable: callers only see
// compiled programs and result slices, so a path-expression library or a
// hand-rolled matcher could replace the default jq engine without touching
// the resource or manifest layers.
package query

import "fmt"

// Engine compiles query expressions into reusable programs.
type Engine interface {
	// Compile parses and compiles a single expression.
	Compile(expr string) (Compiled, error)

	// CompileWithArg compiles an expression referencing one named variable
	// (e.g. "$uri") that is bound at evaluation time.
	CompileWithArg(expr, name string) (ArgCompiled, error)
}

// Compiled is an expression ready to run against a document.
type Compiled interface {
	// Evaluate returns every result of the expression, in document order.
	// An expression that matches nothing returns an empty slice.
	Evaluate(doc map[string]any) ([]any, error)
}

// ArgCompiled is a parameterized expression with a single named argument.
type ArgCompiled interface {
	Evaluate(doc map[string]any, arg any) ([]any, error)
}

// MissingFieldError indicates a single-valued lookup that produced no
// results. It is a lookup failure, not necessarily a user error; callers
// decide how it surfaces.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("metadata query %q produced no results", e.Key)
}

// First returns the first non-null result, or a MissingFieldError keyed by
// key when there is none.
func First(results []any, key string) (any, error) {
	for _, v := range results {
		if v != nil {
			return v, nil
		}
	}
	return nil, &MissingFieldError{Key: key}
}
