package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/five82/framegrid/internal/editor"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
	"github.com/five82/framegrid/internal/state"
)

// drawGrid paints the engine's grid onto cv. off maps content coordinates to
// canvas coordinates; marquee is the rubber band in content coordinates.
func drawGrid(cv *canvas, geo geometry, e *editor.Engine, off mouse.Point, marquee *mouse.Rect) {
	g := e.Grid()
	focus, hasFocus := e.Focus()
	at := func(r mouse.Rect) mouse.Rect {
		return mouse.Rect{X: r.X + off.X, Y: r.Y + off.Y, W: r.W, H: r.H}
	}

	for _, lane := range geo.lanes {
		p := paintLabel
		if hasFocus && focus.Line == lane.line {
			p = paintLabelFocus
		}
		r := at(lane.label)
		cv.text(r.X, r.Y, r.W, lineLabel(lane.line)+loopBounds(g, lane.line), p)
	}

	resizeCell, _, resizing := e.ResizePreview()
	_, target, dropping := e.DropIndicator()
	dragSource, carrying := e.DragSource()

	for _, b := range geo.frames {
		f, _ := g.Frame(b.cell)
		p := paintFrame
		if b.cell.Frame%2 == 1 {
			p = paintFrameAlt
		}
		switch {
		case resizing && b.cell == resizeCell:
			p = paintResize
		case carrying && b.cell == dragSource:
			p = paintSource
		case marquee != nil && b.rect.Intersects(*marquee):
			p = paintMarquee
		case hasFocus && b.cell == focus:
			p = paintFocus
		case e.IsSelected(b.cell):
			p = paintSelected
		case !f.Enabled:
			p = paintDisabled
		}
		r := at(b.rect)
		cv.fill(r, ' ', p)
		for i, text := range frameLabels(f, b.cell) {
			if i >= r.H {
				break
			}
			cv.text(r.X, r.Y+i, r.W-1, text, p)
		}
		if st, ok := e.Status(b.cell); ok {
			mark, mp := compileMark(st.State)
			cv.text(r.X+r.W-1, r.Y, 1, mark, mp)
		}
	}

	if dropping {
		drawDrop(cv, geo, g, target, at)
	}
	if marquee != nil {
		outline(cv, at(*marquee))
	}
}

// frameLabels returns the text rows for one frame box.
func frameLabels(f grid.Frame, c grid.Cell) []string {
	name := f.DisplayName()
	if name == "" {
		name = "#" + strconv.Itoa(c.Frame)
	}
	dur := strconv.FormatFloat(f.Duration, 'f', -1, 64) + "b"
	if reps := f.Reps(); reps > 1 {
		dur += " ×" + strconv.Itoa(reps)
	}
	rows := []string{name, dur}
	if f.Script.Lang != "" {
		rows = append(rows, f.Script.Lang)
	}
	return rows
}

func compileMark(s grid.CompileState) (string, paint) {
	switch s {
	case grid.Compiled:
		return "✓", paintCompiled
	case grid.CompileFailed:
		return "!", paintFailed
	default:
		return "…", paintPending
	}
}

// loopBounds renders the line's start/end frame markers, if any.
func loopBounds(g grid.Grid, line int) string {
	l, ok := g.Line(line)
	if !ok || (l.StartFrame == nil && l.EndFrame == nil) {
		return ""
	}
	start, end := "", ""
	if l.StartFrame != nil {
		start = strconv.Itoa(*l.StartFrame)
	}
	if l.EndFrame != nil {
		end = strconv.Itoa(*l.EndFrame)
	}
	return fmt.Sprintf(" [%s:%s]", start, end)
}

// drawDrop marks where a dragged frame would be inserted.
func drawDrop(cv *canvas, geo geometry, g grid.Grid, target grid.Cell, at func(mouse.Rect) mouse.Rect) {
	horizontal := geo.orientation == editor.Horizontal
	if b, ok := geo.box(target); ok {
		r := at(b.rect)
		if horizontal {
			cv.fill(mouse.Rect{X: r.X, Y: r.Y, W: 1, H: r.H}, '┃', paintDrop)
		} else {
			cv.fill(mouse.Rect{X: r.X, Y: r.Y, W: r.W, H: 1}, '━', paintDrop)
		}
		return
	}
	// Appending: mark the slot after the last frame.
	for _, lane := range geo.lanes {
		if lane.line != target.Line {
			continue
		}
		r := at(lane.rect)
		if n := g.FrameCount(target.Line); n > 0 {
			if last, ok := geo.box(grid.Cell{Line: target.Line, Frame: n - 1}); ok {
				lr := at(last.rect)
				if horizontal {
					r.X = lr.X + lr.W
				} else {
					r.Y = lr.Y + lr.H
				}
			}
		}
		if horizontal {
			cv.fill(mouse.Rect{X: r.X, Y: r.Y, W: 1, H: r.H}, '┃', paintDrop)
		} else {
			cv.fill(mouse.Rect{X: r.X, Y: r.Y, W: r.W, H: 1}, '━', paintDrop)
		}
	}
}

// outline dots the border of r over empty canvas cells.
func outline(cv *canvas, r mouse.Rect) {
	for x := r.X; x < r.X+r.W; x++ {
		for _, y := range []int{r.Y, r.Y + r.H - 1} {
			if cv.inside(x, y) && cv.paints[y][x] == paintBase {
				cv.runes[y][x] = '·'
				cv.paints[y][x] = paintMarquee
			}
		}
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		for _, x := range []int{r.X, r.X + r.W - 1} {
			if cv.inside(x, y) && cv.paints[y][x] == paintBase {
				cv.runes[y][x] = '·'
				cv.paints[y][x] = paintMarquee
			}
		}
	}
}

// statusSegments describes the editor state for the status bar.
func statusSegments(e *editor.Engine, snap state.Snapshot, rejected int64) []string {
	var parts []string
	if m := e.Mode(); m != editor.ModeIdle {
		parts = append(parts, strings.ToUpper(m.String()))
	}
	if focus, ok := e.Focus(); ok {
		parts = append(parts, fmt.Sprintf("L%d·F%d", focus.Line, focus.Frame))
		if n := len(e.SelectedCells()); n > 1 {
			seg := fmt.Sprintf("%d selected", n)
			if a, ok := e.Selection().Anchor(e.Grid()); ok && a != focus {
				seg += fmt.Sprintf(" from L%d·F%d", a.Line, a.Frame)
			}
			parts = append(parts, seg)
		}
		if st, ok := e.Status(focus); ok {
			switch st.State {
			case grid.CompileFailed:
				msg := "compile failed"
				if st.Message != "" {
					msg += ": " + st.Message
				}
				parts = append(parts, msg)
			case grid.Compiled:
				parts = append(parts, "compiled")
			default:
				parts = append(parts, "compiling")
			}
		}
	} else {
		parts = append(parts, "no selection")
	}
	parts = append(parts, "timing "+e.StructuralTiming().String())

	switch {
	case snap.IsOffline():
		parts = append(parts, fmt.Sprintf("offline (%d failures)", snap.ConsecutiveFailures))
	case snap.LastError != nil:
		parts = append(parts, "error: "+snap.LastError.Error())
	case !snap.HasGrid:
		parts = append(parts, "connecting")
	default:
		parts = append(parts, fmt.Sprintf("v%d", snap.Version))
	}
	if rejected > 0 {
		parts = append(parts, fmt.Sprintf("%d rejected", rejected))
	}
	return parts
}

// fitWidth truncates s to width display columns.
func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
