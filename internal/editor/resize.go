package editor

import (
	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
	"github.com/five82/framegrid/internal/timing"
)

type resizing struct {
	cell          grid.Cell
	startPos      int
	startDuration float64
	reps          int
	preview       float64
}

// BeginResize starts dragging the trailing edge of the frame at c from
// pointer position p.
func (e *Engine) BeginResize(c grid.Cell, p mouse.Point) {
	f, ok := e.grid.Frame(c)
	if !ok {
		return
	}
	e.begin(&resizing{
		cell:          c,
		startPos:      e.axis(p),
		startDuration: f.Duration,
		reps:          f.Reps(),
		preview:       f.Duration,
	})
}

// ResizePreview returns the duration to draw for the frame being resized.
func (e *Engine) ResizePreview() (grid.Cell, float64, bool) {
	r, ok := e.active.(*resizing)
	if !ok {
		return grid.Cell{}, 0, false
	}
	return r.cell, r.preview, true
}

func (e *Engine) moveResize(r *resizing, p mouse.Point) {
	delta := float64(e.axis(p) - r.startPos)
	r.preview = snapBeats(r.startDuration+delta/e.pixelsPerBeat/float64(r.reps), e.snap)
}

func (e *Engine) finishResize(r *resizing) {
	e.endInteraction("")
	f, ok := e.grid.Frame(r.cell)
	if !ok || f.Duration == r.preview {
		return
	}
	f = f.Clone()
	f.Duration = r.preview
	e.submit.Submit(commit.SetFrames(timing.Immediate(), commit.FrameEdit{Cell: r.cell, Frame: f}))
}

// axis picks the pointer coordinate along which durations grow.
func (e *Engine) axis(p mouse.Point) int {
	if e.orientation == Horizontal {
		return p.X
	}
	return p.Y
}
