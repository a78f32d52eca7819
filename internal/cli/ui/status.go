package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status renders pass/fail lines for check-style commands
type Status struct {
	writer  io.Writer
	noColor bool
}

// NewStatus creates a status printer
func NewStatus(w io.Writer, noColor bool) *Status {
	return &Status{writer: w, noColor: noColor}
}

// OK prints a success line
func (s *Status) OK(format string, args ...any) {
	green := color.New(color.FgGreen, color.Bold)
	if s.noColor {
		green.DisableColor()
	}
	green.Fprint(s.writer, "✓ ")
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Fail prints a failure line
func (s *Status) Fail(format string, args ...any) {
	red := color.New(color.FgRed, color.Bold)
	if s.noColor {
		red.DisableColor()
	}
	red.Fprint(s.writer, "✗ ")
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Warn prints a warning line
func (s *Status) Warn(format string, args ...any) {
	yellow := color.New(color.FgYellow, color.Bold)
	if s.noColor {
		yellow.DisableColor()
	}
	yellow.Fprint(s.writer, "! ")
	fmt.Fprintf(s.writer, format+"\n", args...)
}
