package editor

import (
	"reflect"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
)

type dragging struct {
	source    grid.Cell
	frame     grid.Frame
	target    grid.Cell
	hasTarget bool
}

// BeginDrag picks up the frame at c.
func (e *Engine) BeginDrag(c grid.Cell) {
	f, ok := e.grid.Frame(c)
	if !ok {
		return
	}
	e.begin(&dragging{source: c, frame: f.Clone()})
}

// DragOver records the drop position under the pointer. The frame index may
// equal the line length to append. It is applied on the next FrameTick.
func (e *Engine) DragOver(c grid.Cell) {
	if _, ok := e.active.(*dragging); !ok {
		return
	}
	e.pendingTarget = &c
}

// DropIndicator returns the dragged cell and where it would land.
func (e *Engine) DropIndicator() (source, target grid.Cell, ok bool) {
	d, isDrag := e.active.(*dragging)
	if !isDrag || !d.hasTarget {
		return grid.Cell{}, grid.Cell{}, false
	}
	return d.source, d.target, true
}

// DragSource returns the cell being carried.
func (e *Engine) DragSource() (grid.Cell, bool) {
	d, ok := e.active.(*dragging)
	if !ok {
		return grid.Cell{}, false
	}
	return d.source, true
}

func (e *Engine) moveDrag(d *dragging, c grid.Cell) {
	if _, ok := e.grid.Line(c.Line); !ok {
		d.hasTarget = false
		return
	}
	d.target = grid.Cell{Line: c.Line, Frame: clamp(c.Frame, 0, e.grid.FrameCount(c.Line))}
	d.hasTarget = true
}

// finishDrag sends the move as one ordered sequence: insert at the target,
// then remove the source at its post-insert index. The sequence stops at the
// first rejection, so the source is only removed once the copy exists.
func (e *Engine) finishDrag(d *dragging) {
	e.endInteraction("")
	if !d.hasTarget {
		return
	}
	cur, ok := e.grid.Frame(d.source)
	if !ok || !reflect.DeepEqual(cur, d.frame) {
		e.logger.Debug("drag source changed, dropping move", "source", d.source.String())
		return
	}
	src, dst := d.source, d.target
	if dst.Line == src.Line && (dst.Frame == src.Frame || dst.Frame == src.Frame+1) {
		return
	}

	remove := src
	if dst.Line == src.Line && dst.Frame <= src.Frame {
		remove.Frame++
	}
	final := dst
	if dst.Line == src.Line && dst.Frame > src.Frame {
		final.Frame--
	}
	e.submit.Submit(
		commit.AddFrame(e.structural, dst, d.frame.Clone()),
		commit.RemoveFrame(e.structural, remove),
	)
	e.sel.span(final, final)
}
