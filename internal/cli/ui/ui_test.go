package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"KEY", "QUERY"}, true)
	table.AddRow("$uri", ".id")
	table.AddRow("$label", ".title")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "KEY")
	assert.Contains(t, lines[0], "QUERY")
	assert.Contains(t, lines[2], "$uri")
	assert.Contains(t, lines[3], "$label")
}

func TestTableColumnAlignment(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"A", "B"}, true)
	table.AddRow("longer-cell", "x")
	table.Render()

	lines := strings.Split(buf.String(), "\n")
	// Header column B starts after the widest cell in column A.
	assert.Equal(t, strings.Index(lines[2], "x"), strings.Index(lines[0], "B"))
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	status := NewStatus(&buf, true)
	status.OK("compiled %s", "$uri")
	status.Fail("bad query %s", "$label")
	status.Warn("missing %s", "$date")

	out := buf.String()
	assert.Contains(t, out, "✓ compiled $uri")
	assert.Contains(t, out, "✗ bad query $label")
	assert.Contains(t, out, "! missing $date")
}
