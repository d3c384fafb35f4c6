// Package viewport windows a rendered document onto a bounded number of
// terminal rows.
package viewport

import "strings"

// DefaultStep is the number of lines moved by a single scroll command.
const DefaultStep = 5

// Class is the presentation class of a line, derived from its text.
type Class int

const (
	ClassPlain Class = iota
	ClassHeading
	ClassLink
)

func (c Class) String() string {
	switch c {
	case ClassHeading:
		return "heading"
	case ClassLink:
		return "link"
	default:
		return "plain"
	}
}

// Classify returns the class for a line of rendered text. Headings win
// over links.
func Classify(text string) Class {
	if strings.HasPrefix(strings.TrimSpace(text), "#") {
		return ClassHeading
	}
	if strings.Contains(text, "http") || strings.Contains(text, "www.") {
		return ClassLink
	}
	return ClassPlain
}

// Line is one visible row.
type Line struct {
	Number int // 1-based position in the document
	Text   string
	Class  Class
}

// Viewport owns the current document and its scroll offset.
//
// The offset is stored unclamped against height because the terminal can be
// resized between renders; every read and write clamps it against the height
// in effect at that moment.
type Viewport struct {
	lines  []string
	offset int
	step   int
}

// New returns an empty viewport scrolling by step lines (DefaultStep if <= 0).
func New(step int) *Viewport {
	if step <= 0 {
		step = DefaultStep
	}
	return &Viewport{step: step}
}

// SetDocument replaces the document and resets the scroll offset.
func (v *Viewport) SetDocument(lines []string) {
	doc := make([]string, len(lines))
	copy(doc, lines)
	v.lines = doc
	v.offset = 0
}

// Lines returns the full document.
func (v *Viewport) Lines() []string {
	return v.lines
}

// Len returns the number of lines in the document.
func (v *Viewport) Len() int {
	return len(v.lines)
}

// MaxScroll is the largest valid offset for the given height.
func (v *Viewport) MaxScroll(height int) int {
	if height < 0 {
		height = 0
	}
	if m := len(v.lines) - height; m > 0 {
		return m
	}
	return 0
}

// Offset returns the scroll offset clamped for height and stores it.
func (v *Viewport) Offset(height int) int {
	v.offset = clamp(v.offset, 0, v.MaxScroll(height))
	return v.offset
}

// ScrollBy moves the offset by delta lines, saturating at 0 and MaxScroll.
func (v *Viewport) ScrollBy(delta, height int) int {
	v.offset = clamp(v.Offset(height)+delta, 0, v.MaxScroll(height))
	return v.offset
}

// ScrollUp moves up by one step.
func (v *Viewport) ScrollUp(height int) int {
	return v.ScrollBy(-v.step, height)
}

// ScrollDown moves down by one step.
func (v *Viewport) ScrollDown(height int) int {
	return v.ScrollBy(v.step, height)
}

// VisibleSlice returns at most height lines starting at the clamped offset.
func (v *Viewport) VisibleSlice(height int) []Line {
	if height <= 0 {
		return nil
	}
	start := v.Offset(height)
	end := min(start+height, len(v.lines))

	out := make([]Line, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, Line{
			Number: i + 1,
			Text:   v.lines[i],
			Class:  Classify(v.lines[i]),
		})
	}
	return out
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
