package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engine = NewEngine()

func TestCompileAndEvaluate(t *testing.T) {
	doc := map[string]any{
		"title": "Foobar",
		"creator": []any{
			map[string]any{"name": "John Doe"},
			map[string]any{"name": "Jane Roe"},
		},
	}

	tests := []struct {
		name string
		expr string
		want []any
	}{
		{"scalar field", ".title", []any{"Foobar"}},
		{"iterated field", ".creator[]?.name", []any{"John Doe", "Jane Roe"}},
		{"missing field", ".nope", []any{nil}},
		{"guarded missing iteration", ".nope[]?", []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiled, err := engine.Compile(tt.expr)
			require.NoError(t, err)

			got, err := compiled.Evaluate(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileError(t *testing.T) {
	_, err := engine.Compile(".[unbalanced")
	assert.Error(t, err)
}

func TestEvaluateError(t *testing.T) {
	compiled, err := engine.Compile(".title[]")
	require.NoError(t, err)

	// iterating over a scalar is a runtime query error
	_, err = compiled.Evaluate(map[string]any{"title": "Foobar"})
	assert.Error(t, err)
}

func TestCompileWithArg(t *testing.T) {
	doc := map[string]any{
		"pages": []any{
			map[string]any{"id": "p1", "title": "Page 1"},
			map[string]any{"id": "p2", "title": "Page 2"},
		},
	}

	compiled, err := engine.CompileWithArg(`.pages[]|select(.id == $uri).title`, "$uri")
	require.NoError(t, err)

	got, err := compiled.Evaluate(doc, "p2")
	require.NoError(t, err)
	assert.Equal(t, []any{"Page 2"}, got)

	got, err = compiled.Evaluate(doc, "p1")
	require.NoError(t, err)
	assert.Equal(t, []any{"Page 1"}, got)
}

func TestFirst(t *testing.T) {
	v, err := First([]any{"a", "b"}, "$label")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	v, err = First([]any{nil, "b"}, "$label")
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	_, err = First([]any{}, "$label")
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "$label", missing.Key)

	_, err = First([]any{nil}, "$date")
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "$date", missing.Key)
}
