// Package commit carries mutation requests from the editor to the
// authority. Every request is tagged with a timing directive.
package commit

import (
	"fmt"

	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// Kind identifies the mutation a request performs.
type Kind int

const (
	KindSetFrames Kind = iota
	KindAddFrame
	KindRemoveFrame
	KindSetLines
)

func (k Kind) String() string {
	switch k {
	case KindSetFrames:
		return "set-frames"
	case KindAddFrame:
		return "add-frame"
	case KindRemoveFrame:
		return "remove-frame"
	case KindSetLines:
		return "set-lines"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FrameEdit replaces the frame at Cell.
type FrameEdit struct {
	Cell  grid.Cell  `json:"cell"`
	Frame grid.Frame `json:"frame"`
}

// LineEdit replaces the line at Line.
type LineEdit struct {
	Line  int       `json:"line"`
	Value grid.Line `json:"value"`
}

// Request is one mutation. At and Insert are used by add and remove.
type Request struct {
	Kind   Kind
	Timing timing.Directive
	Frames []FrameEdit
	Lines  []LineEdit
	At     grid.Cell
	Insert grid.Frame
}

// SetFrames replaces a batch of frames.
func SetFrames(t timing.Directive, edits ...FrameEdit) Request {
	return Request{Kind: KindSetFrames, Timing: t, Frames: edits}
}

// AddFrame inserts f so that it ends up at index at.Frame on line at.Line.
func AddFrame(t timing.Directive, at grid.Cell, f grid.Frame) Request {
	return Request{Kind: KindAddFrame, Timing: t, At: at, Insert: f}
}

// RemoveFrame removes the frame at at.
func RemoveFrame(t timing.Directive, at grid.Cell) Request {
	return Request{Kind: KindRemoveFrame, Timing: t, At: at}
}

// SetLines replaces a batch of lines.
func SetLines(t timing.Directive, edits ...LineEdit) Request {
	return Request{Kind: KindSetLines, Timing: t, Lines: edits}
}

func (r Request) String() string {
	switch r.Kind {
	case KindAddFrame, KindRemoveFrame:
		return fmt.Sprintf("%s %v @%s", r.Kind, r.At, r.Timing)
	case KindSetFrames:
		return fmt.Sprintf("%s x%d @%s", r.Kind, len(r.Frames), r.Timing)
	case KindSetLines:
		return fmt.Sprintf("%s x%d @%s", r.Kind, len(r.Lines), r.Timing)
	}
	return r.Kind.String()
}
