package editor

import (
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
)

// Mode names the active interaction.
type Mode int

const (
	ModeIdle Mode = iota
	ModeEditing
	ModeResizing
	ModeDragging
	ModeMarquee
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeResizing:
		return "resizing"
	case ModeDragging:
		return "dragging"
	case ModeMarquee:
		return "marquee"
	default:
		return "idle"
	}
}

// interaction is one of *editing, *resizing, *dragging or *marquee. A nil
// interaction is idle.
type interaction interface {
	mode() Mode
	// sources returns the cells the interaction will write to. A structural
	// event touching any of them makes the interaction stale.
	sources() []grid.Cell
}

func (*editing) mode() Mode { return ModeEditing }
func (*resizing) mode() Mode { return ModeResizing }
func (*dragging) mode() Mode { return ModeDragging }
func (*marquee) mode() Mode { return ModeMarquee }

func (e *editing) sources() []grid.Cell { return []grid.Cell{e.cell} }
func (r *resizing) sources() []grid.Cell { return []grid.Cell{r.cell} }
func (*marquee) sources() []grid.Cell { return nil }

func (d *dragging) sources() []grid.Cell {
	if d.hasTarget {
		return []grid.Cell{d.source, d.target}
	}
	return []grid.Cell{d.source}
}

// Mode returns the active interaction kind.
func (e *Engine) Mode() Mode {
	if e.active == nil {
		return ModeIdle
	}
	return e.active.mode()
}

// begin cancels whatever is active and installs next. Pointer interactions
// take the pointer capture.
func (e *Engine) begin(next interaction) {
	e.endInteraction("superseded")
	e.active = next
	if next.mode() != ModeEditing {
		e.guard = e.capture.Acquire(next.mode().String())
	}
}

// endInteraction is the only way back to idle. It always releases the
// pointer capture and drops any coalesced move.
func (e *Engine) endInteraction(reason string) {
	if e.active != nil && reason != "" {
		e.logger.Debug("interaction ended", "mode", e.active.mode().String(), "reason", reason)
	}
	e.active = nil
	e.guard.Release()
	e.guard = mouse.Guard{}
	e.pendingPoint = nil
	e.pendingTarget = nil
}

// stale reports whether ev moves or removes a cell the active interaction
// depends on.
func (e *Engine) stale(ev grid.Event) bool {
	if e.active == nil {
		return false
	}
	for _, c := range e.active.sources() {
		if ev.Shifts(c) {
			return true
		}
		if c.IsLineScoped() && ev.Kind == grid.FrameRemoved && ev.Line == c.Line {
			return true
		}
	}
	return false
}

// resolvable reports whether the active interaction's source still exists in
// the current grid.
func (e *Engine) resolvable() bool {
	switch a := e.active.(type) {
	case *editing:
		if a.cell.IsLineScoped() {
			_, ok := e.grid.Line(a.cell.Line)
			return ok
		}
		return e.grid.Has(a.cell)
	case *resizing:
		return e.grid.Has(a.cell)
	case *dragging:
		return e.grid.Has(a.source)
	}
	return true
}
