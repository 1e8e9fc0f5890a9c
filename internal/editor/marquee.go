package editor

import (
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
)

type marquee struct {
	start    mouse.Point
	current  mouse.Point
	additive bool
}

func (m *marquee) rect() mouse.Rect {
	return mouse.RectFromPoints(m.start, m.current)
}

// BeginMarquee starts a rubber-band selection at p. An additive marquee
// extends the current selection instead of replacing it.
func (e *Engine) BeginMarquee(p mouse.Point, additive bool) {
	e.begin(&marquee{start: p, current: p, additive: additive})
}

// MarqueeRect returns the rectangle covered so far, in terminal cells.
func (e *Engine) MarqueeRect() (mouse.Rect, bool) {
	m, ok := e.active.(*marquee)
	if !ok {
		return mouse.Rect{}, false
	}
	return m.rect(), true
}

// EndMarquee applies any pending move, asks covered for the cells under the
// final rectangle and selects their bounding box. An additive marquee
// grows the bounding box of the previous selection instead.
func (e *Engine) EndMarquee(covered func(mouse.Rect) []grid.Cell) {
	m, ok := e.active.(*marquee)
	if !ok {
		return
	}
	e.FrameTick()
	rect := m.rect()
	e.endInteraction("")

	var cells []grid.Cell
	if covered != nil {
		cells = covered(rect)
	}
	if m.additive {
		cells = append(cells, e.sel.Cells(e.grid)...)
	}
	lo, hi, ok := bounds(e.grid, cells)
	if !ok {
		if !m.additive {
			e.sel.Clear()
		}
		return
	}
	e.sel.span(lo, hi)
}

// bounds returns the top-left and bottom-right corners of the existing
// cells among cells.
func bounds(g grid.Grid, cells []grid.Cell) (lo, hi grid.Cell, ok bool) {
	for _, c := range cells {
		if !g.Has(c) {
			continue
		}
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo.Line, lo.Frame = min(lo.Line, c.Line), min(lo.Frame, c.Frame)
		hi.Line, hi.Frame = max(hi.Line, c.Line), max(hi.Frame, c.Frame)
	}
	return lo, hi, ok
}
