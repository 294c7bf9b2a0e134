// Package tikz emits the TikZ drawing commands for schedule boxes.
//
// Output is a bare fragment meant to be \input into a tikzpicture: one
// \draw rectangle and one \node label per event. Coordinates are printed in
// shortest round-trip form with a trailing ".0" on integral values so that
// fragments stay byte-compatible with documents built from earlier runs.
package tikz

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"schedtex/internal/model"
	"schedtex/internal/timeline"
)

// Slot places one event on the page.
type Slot struct {
	// X is the left edge of the stage column, in cm.
	X float64
	// Width is the stage column width, in cm.
	Width float64
	// Offset is the minute that maps to y = 0.
	Offset int
	// Scale is the length of one minute. Negative scales grow downwards.
	Scale float64
	// TimeSize and TextSize are TeX size switches such as `\tiny`.
	TimeSize string
	TextSize string
	// NFC composes combining sequences in the label text before escaping.
	// Off by default, which keeps label bytes as received.
	NFC bool
}

// Builder accumulates drawing commands for one output artifact.
type Builder struct {
	sb     strings.Builder
	events int
}

// Rectangle appends `\draw (x1,y1) rectangle (x2,y2);`.
func (b *Builder) Rectangle(x1, y1, x2, y2 float64) {
	b.sb.WriteString(`\draw (`)
	b.sb.WriteString(FormatFloat(x1))
	b.sb.WriteByte(',')
	b.sb.WriteString(FormatFloat(y1))
	b.sb.WriteString(") rectangle (")
	b.sb.WriteString(FormatFloat(x2))
	b.sb.WriteByte(',')
	b.sb.WriteString(FormatFloat(y2))
	b.sb.WriteString(");\n")
}

// Node appends a centered text node of the given width at (x, y). body is
// written verbatim inside the node braces.
func (b *Builder) Node(x, y, width float64, body string) {
	b.sb.WriteString(`\node at (`)
	b.sb.WriteString(FormatFloat(x))
	b.sb.WriteByte(',')
	b.sb.WriteString(FormatFloat(y))
	b.sb.WriteString(") [text width = ")
	b.sb.WriteString(FormatFloat(width))
	b.sb.WriteString("cm, text centered] {")
	b.sb.WriteString(body)
	b.sb.WriteString("};\n")
}

// Event appends the box and label for ev.
func (b *Builder) Event(ev model.Event, slot Slot) error {
	start, end, err := timeline.ParseRange(ev.Time)
	if err != nil {
		return err
	}

	x1 := slot.X
	x2 := slot.X + slot.Width
	// Explicit conversions forbid fused multiply-add so coordinates are
	// identical on every architecture.
	y1 := float64(float64(start-slot.Offset) * slot.Scale)
	y2 := float64(float64(end-slot.Offset) * slot.Scale)

	xCenter := x1 + slot.Width/2
	yCenter := y1 - (y1-y2)/2

	b.Rectangle(x1, y1, x2, y2)
	b.Node(xCenter, yCenter, slot.Width, label(ev, slot))
	b.events++
	return nil
}

// Events reports how many events have been appended.
func (b *Builder) Events() int { return b.events }

func (b *Builder) Len() int { return b.sb.Len() }

func (b *Builder) String() string { return b.sb.String() }

// RenderEvent returns the two commands for a single event.
func RenderEvent(ev model.Event, slot Slot) (string, error) {
	var b Builder
	if err := b.Event(ev, slot); err != nil {
		return "", err
	}
	return b.String(), nil
}

func label(ev model.Event, slot Slot) string {
	text := ev.Label
	if slot.NFC {
		text = norm.NFC.String(text)
	}
	return slot.TimeSize + "{}" + ev.Time + `\\` + slot.TextSize + "{}" + Escape(text)
}

// Escape prepares free text for TeX. `&` is the only character rewritten.
func Escape(s string) string {
	return strings.ReplaceAll(s, "&", `\&`)
}

// FormatFloat prints f in shortest round-trip form. Integral values keep a
// ".0" suffix and very small or very large magnitudes switch to exponent
// notation, e.g. 0.0, -3.5, 1e-05, 1e+16.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
