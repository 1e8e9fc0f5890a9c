package ui

import (
	"fmt"
	"math"

	"github.com/five82/framegrid/internal/editor"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
)

// Hit region ids.
const (
	regionLane = "lane"
	regionCell = "cell"
	regionEdge = "edge"
)

const (
	columnWidth    = 12 // vertical: width of one line
	rowHeight      = 3  // horizontal: height of one line
	labelWidth     = 5  // horizontal: line label column
	laneGap        = 1
	minFrameRows   = 2
	minFrameCols   = 4
	trailingMargin = 2 // room after the last frame for an append drop
)

type frameBox struct {
	cell grid.Cell
	rect mouse.Rect
	edge mouse.Rect
}

type laneBox struct {
	line  int
	label mouse.Rect
	rect  mouse.Rect
}

// geometry places every frame in content coordinates. Screen coordinates
// are content coordinates shifted by the body origin and scroll offset.
type geometry struct {
	orientation editor.Orientation
	frames      []frameBox
	lanes       []laneBox
	width       int
	height      int
}

// frameSpan is the on-screen length of a frame along the time axis.
func frameSpan(duration float64, reps int, ppb float64, minimum int) int {
	if reps < 1 {
		reps = 1
	}
	n := int(math.Round(duration * float64(reps) * ppb))
	if n < minimum {
		return minimum
	}
	return n
}

// computeGeometry lays out g. When resizing, the previewed duration replaces
// the stored one so the frame grows under the pointer.
func computeGeometry(g grid.Grid, o editor.Orientation, ppb float64, preview func(grid.Cell) (float64, bool)) geometry {
	geo := geometry{orientation: o}
	for li, line := range g.Lines {
		pos := 0
		for fi, f := range line.Frames {
			c := grid.Cell{Line: li, Frame: fi}
			dur := f.Duration
			if preview != nil {
				if d, ok := preview(c); ok {
					dur = d
				}
			}
			var box frameBox
			box.cell = c
			if o == editor.Horizontal {
				n := frameSpan(dur, f.Reps(), ppb, minFrameCols)
				y := li * (rowHeight + laneGap)
				box.rect = mouse.Rect{X: labelWidth + pos, Y: y, W: n, H: rowHeight}
				box.edge = mouse.Rect{X: labelWidth + pos + n - 1, Y: y, W: 1, H: rowHeight}
				pos += n
			} else {
				n := frameSpan(dur, f.Reps(), ppb, minFrameRows)
				x := li * (columnWidth + laneGap)
				box.rect = mouse.Rect{X: x, Y: 1 + pos, W: columnWidth, H: n}
				box.edge = mouse.Rect{X: x, Y: 1 + pos + n - 1, W: columnWidth, H: 1}
				pos += n
			}
			geo.frames = append(geo.frames, box)
		}
		if o == editor.Horizontal {
			geo.width = max(geo.width, labelWidth+pos+trailingMargin)
		} else {
			geo.height = max(geo.height, 1+pos+trailingMargin)
		}
	}

	for li := range g.Lines {
		var lane laneBox
		lane.line = li
		if o == editor.Horizontal {
			y := li * (rowHeight + laneGap)
			lane.label = mouse.Rect{X: 0, Y: y, W: labelWidth, H: rowHeight}
			lane.rect = mouse.Rect{X: labelWidth, Y: y, W: max(geo.width-labelWidth, minFrameCols), H: rowHeight}
		} else {
			x := li * (columnWidth + laneGap)
			lane.label = mouse.Rect{X: x, Y: 0, W: columnWidth, H: 1}
			lane.rect = mouse.Rect{X: x, Y: 1, W: columnWidth, H: max(geo.height-1, minFrameRows)}
		}
		geo.lanes = append(geo.lanes, lane)
	}

	n := len(g.Lines)
	if o == editor.Horizontal {
		geo.height = max(n*(rowHeight+laneGap)-laneGap, 0)
		geo.width = max(geo.width, labelWidth+minFrameCols)
	} else {
		geo.width = max(n*(columnWidth+laneGap)-laneGap, 0)
		geo.height = max(geo.height, 1+minFrameRows)
	}
	return geo
}

// box returns the frame box for c.
func (geo geometry) box(c grid.Cell) (frameBox, bool) {
	for _, b := range geo.frames {
		if b.cell == c {
			return b, true
		}
	}
	return frameBox{}, false
}

func lineLabel(line int) string {
	return fmt.Sprintf("L%d", line)
}

// register adds the geometry to hits, offset into screen space and clipped
// to the visible body.
func (geo geometry) register(hits *mouse.HitMap, origin mouse.Point, body mouse.Rect) {
	hits.Clear()
	shift := func(r mouse.Rect) mouse.Rect {
		return mouse.Rect{X: r.X + origin.X, Y: r.Y + origin.Y, W: r.W, H: r.H}
	}
	for _, lane := range geo.lanes {
		if r := shift(lane.rect); r.Intersects(body) {
			hits.Add(regionLane, r, lane.line)
		}
	}
	for _, b := range geo.frames {
		if r := shift(b.rect); r.Intersects(body) {
			hits.Add(regionCell, r, b.cell)
		}
	}
	for _, b := range geo.frames {
		if r := shift(b.edge); r.Intersects(body) {
			hits.Add(regionEdge, r, b.cell)
		}
	}
}

// dropTarget maps a pointer position over a region to an insertion point.
// The trailing half of a frame inserts after it; empty lane space appends.
func dropTarget(g grid.Grid, o editor.Orientation, region *mouse.Region, p mouse.Point) (grid.Cell, bool) {
	if region == nil {
		return grid.Cell{}, false
	}
	switch region.ID {
	case regionCell, regionEdge:
		c, ok := region.Data.(grid.Cell)
		if !ok {
			return grid.Cell{}, false
		}
		r := region.Rect
		if region.ID == regionEdge {
			return grid.Cell{Line: c.Line, Frame: c.Frame + 1}, true
		}
		if o == editor.Horizontal {
			if p.X-r.X >= (r.W+1)/2 {
				c.Frame++
			}
		} else if p.Y-r.Y >= (r.H+1)/2 {
			c.Frame++
		}
		return c, true
	case regionLane:
		line, ok := region.Data.(int)
		if !ok {
			return grid.Cell{}, false
		}
		return grid.Cell{Line: line, Frame: g.FrameCount(line)}, true
	}
	return grid.Cell{}, false
}

// coveredCells returns the cells whose regions intersect r.
func coveredCells(hits *mouse.HitMap, r mouse.Rect) []grid.Cell {
	var cells []grid.Cell
	for _, region := range hits.Intersecting(regionCell, r) {
		if c, ok := region.Data.(grid.Cell); ok {
			cells = append(cells, c)
		}
	}
	return cells
}
