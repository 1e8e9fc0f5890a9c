package editor

import (
	"github.com/five82/framegrid/internal/grid"
)

// Selection is an anchor and a focus cell. The selected set is derived from
// them against the grid at hand and never stored.
type Selection struct {
	anchor grid.Cell
	focus  grid.Cell
	active bool
}

// Select collapses the selection onto c, clamped into g.
func (s *Selection) Select(g grid.Grid, c grid.Cell) {
	c, ok := clampCell(g, c)
	if !ok {
		s.Clear()
		return
	}
	s.anchor, s.focus, s.active = c, c, true
}

// Extend moves the focus to c, clamped into g, keeping the anchor.
func (s *Selection) Extend(g grid.Grid, c grid.Cell) {
	c, ok := clampCell(g, c)
	if !ok {
		s.Clear()
		return
	}
	if !s.active {
		s.anchor = c
	}
	s.focus, s.active = c, true
}

// CollapseToFocus sets the anchor to the focus.
func (s *Selection) CollapseToFocus() {
	s.anchor = s.focus
}

// Clear drops the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// span sets anchor and focus without clamping. Used for predicted positions
// and for rectangles whose far corner lies past a shorter line.
func (s *Selection) span(anchor, focus grid.Cell) {
	s.anchor, s.focus, s.active = anchor, focus, true
}

// Active reports whether anything is selected.
func (s Selection) Active() bool {
	return s.active
}

// Focus returns the focus resolved against g.
func (s Selection) Focus(g grid.Grid) (grid.Cell, bool) {
	if !s.active {
		return grid.Cell{}, false
	}
	return clampCell(g, s.focus)
}

// Anchor returns the anchor resolved against g.
func (s Selection) Anchor(g grid.Grid) (grid.Cell, bool) {
	if !s.active {
		return grid.Cell{}, false
	}
	return clampCell(g, s.anchor)
}

// Cells returns the selected cells in row-major order. Each line in the
// span contributes the frames of the span's frame range that it has.
func (s Selection) Cells(g grid.Grid) []grid.Cell {
	if !s.active || g.Empty() {
		return nil
	}
	loL, hiL := minMax(s.anchor.Line, s.focus.Line)
	loF, hiF := minMax(s.anchor.Frame, s.focus.Frame)
	loF = max(loF, 0)
	hiL = min(hiL, g.LineCount()-1)
	loL = max(loL, 0)

	var out []grid.Cell
	for l := loL; l <= hiL; l++ {
		last := min(hiF, g.FrameCount(l)-1)
		for f := loF; f <= last; f++ {
			out = append(out, grid.Cell{Line: l, Frame: f})
		}
	}
	if len(out) == 0 {
		if c, ok := clampCell(g, s.focus); ok {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether c is selected in g.
func (s Selection) Contains(g grid.Grid, c grid.Cell) bool {
	if !s.active || !g.Has(c) {
		return false
	}
	loL, hiL := minMax(s.anchor.Line, s.focus.Line)
	loF, hiF := minMax(s.anchor.Frame, s.focus.Frame)
	if c.Line >= loL && c.Line <= hiL && c.Frame >= loF && c.Frame <= hiF {
		return true
	}
	f, ok := clampCell(g, s.focus)
	return ok && f == c
}

// clampCell resolves c to the nearest existing cell. Lines without frames
// are skipped in favour of the closest line that has some. It fails only
// when g has no frames at all.
func clampCell(g grid.Grid, c grid.Cell) (grid.Cell, bool) {
	n := g.LineCount()
	if n == 0 {
		return grid.Cell{}, false
	}
	line := clamp(c.Line, 0, n-1)
	if g.FrameCount(line) == 0 {
		found := false
		for d := 1; d < n && !found; d++ {
			for _, l := range []int{line - d, line + d} {
				if l >= 0 && l < n && g.FrameCount(l) > 0 {
					line, found = l, true
					break
				}
			}
		}
		if !found {
			return grid.Cell{}, false
		}
	}
	return grid.Cell{Line: line, Frame: clamp(c.Frame, 0, g.FrameCount(line)-1)}, true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minMax(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
