package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/framegrid/internal/editor"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
)

const scrollStep = 3

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		return m, nil
	}
	if m.showLogs {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}

	act := m.mouse.HandleMouse(msg)
	switch act.Type {
	case mouse.ActionPress:
		if !m.bodyRect().Contains(act.Point.X, act.Point.Y) {
			return m, nil
		}
		m.beginPointer(act)
		m.syncInput()
		return m, m.startTicking()

	case mouse.ActionDrag:
		switch m.mouse.Capture.Owner() {
		case editor.ModeResizing.String(), editor.ModeMarquee.String():
			m.engine.PointerMove(act.Point)
		case editor.ModeDragging.String():
			if c, ok := dropTarget(m.engine.Grid(), m.engine.Orientation(), act.Region, act.Point); ok {
				m.engine.DragOver(c)
			}
		}
		return m, m.startTicking()

	case mouse.ActionRelease:
		// The release belongs to whichever interaction holds the pointer.
		switch m.mouse.Capture.Owner() {
		case editor.ModeMarquee.String():
			m.engine.PointerMove(act.Point)
			hits := m.mouse.HitMap
			m.engine.EndMarquee(func(r mouse.Rect) []grid.Cell {
				return coveredCells(hits, r)
			})
		case editor.ModeDragging.String():
			if c, ok := dropTarget(m.engine.Grid(), m.engine.Orientation(), act.Region, act.Point); ok {
				m.engine.DragOver(c)
			}
			m.engine.PointerUp(act.Point)
		case editor.ModeResizing.String():
			m.engine.PointerUp(act.Point)
		}
		return m, nil

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		step := scrollStep
		if act.Type == mouse.ActionScrollUp {
			step = -step
		}
		m.scrollBy(act.Shift, step)
		return m, nil
	}
	return m, nil
}

// beginPointer starts the interaction implied by what was pressed: the
// trailing edge of a frame resizes it, a frame body selects and picks it up,
// anything else starts a marquee.
func (m *Model) beginPointer(act mouse.Action) {
	region := act.Region
	if region == nil || region.ID == regionLane {
		m.engine.BeginMarquee(act.Point, act.Shift || act.Ctrl || act.Alt)
		return
	}
	c, ok := region.Data.(grid.Cell)
	if !ok {
		return
	}
	switch region.ID {
	case regionEdge:
		m.engine.Select(c)
		m.engine.BeginResize(c, act.Point)
	case regionCell:
		if act.Shift {
			m.engine.Cancel()
			m.engine.Extend(c)
			return
		}
		m.engine.Select(c)
		m.engine.BeginDrag(c)
	}
}

// startTicking schedules frame ticks while the pointer is captured so
// coalesced moves are applied at most once per frame.
func (m *Model) startTicking() tea.Cmd {
	if m.ticking || !m.mouse.Capture.Held() {
		return nil
	}
	m.ticking = true
	return frameTickCmd()
}

func (m *Model) scrollBy(horizontal bool, delta int) {
	geo := m.geometry()
	body := m.bodyRect()
	if horizontal {
		m.scroll.X = clampScroll(m.scroll.X+delta, geo.width-body.W)
		return
	}
	m.scroll.Y = clampScroll(m.scroll.Y+delta, geo.height-body.H)
}

func clampScroll(v, limit int) int {
	if limit < 0 {
		limit = 0
	}
	return max(0, min(v, limit))
}
