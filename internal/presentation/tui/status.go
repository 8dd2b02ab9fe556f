package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Status prints validation outcomes with a coloured marker.
type Status struct {
	w   io.Writer
	out *termenv.Output
}

// NewStatus returns a Status writing to w. Colours are dropped when w is
// not a terminal.
func NewStatus(w io.Writer) *Status {
	return &Status{w: w, out: termenv.NewOutput(w)}
}

// OK prints a success line.
func (s *Status) OK(format string, args ...any) {
	s.print("OK", "#22c55e", format, args...)
}

// Fail prints a failure line.
func (s *Status) Fail(format string, args ...any) {
	s.print("FAIL", "#ef4444", format, args...)
}

func (s *Status) print(tag, color, format string, args ...any) {
	marker := s.out.String(fmt.Sprintf("[%s]", tag)).Foreground(s.out.Color(color)).Bold()
	fmt.Fprintf(s.w, "%s %s\n", marker, fmt.Sprintf(format, args...))
}
