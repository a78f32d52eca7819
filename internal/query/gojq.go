package query

import (
	"fmt"

	"github.com/itchyny/gojq"
)

// GojqEngine implements Engine on top of the gojq jq interpreter.
type GojqEngine struct{}

// NewEngine returns the default query engine.
func NewEngine() *GojqEngine {
	return &GojqEngine{}
}

// Compile parses and compiles a jq expression.
func (e *GojqEngine) Compile(expr string) (Compiled, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", expr, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", expr, err)
	}
	return &gojqProgram{code: code}, nil
}

// CompileWithArg parses and compiles a jq expression that references the
// named variable, e.g. "$uri".
func (e *GojqEngine) CompileWithArg(expr, name string) (ArgCompiled, error) {
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse query %q: %w", expr, err)
	}
	code, err := gojq.Compile(parsed, gojq.WithVariables([]string{name}))
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", expr, err)
	}
	return &gojqArgProgram{code: code}, nil
}

type gojqProgram struct {
	code *gojq.Code
}

func (p *gojqProgram) Evaluate(doc map[string]any) ([]any, error) {
	return runCode(p.code, doc)
}

type gojqArgProgram struct {
	code *gojq.Code
}

func (p *gojqArgProgram) Evaluate(doc map[string]any, arg any) ([]any, error) {
	return runCode(p.code, doc, arg)
}

func runCode(code *gojq.Code, doc map[string]any, args ...any) ([]any, error) {
	results := []any{}
	iter := code.Run(doc, args...)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("evaluate query: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}
