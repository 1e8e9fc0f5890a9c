// Package editor is the grid interaction engine: selection, clipboard,
// field editing, pointer interactions and keyboard dispatch over a
// read-only mirror of the authority's grid.
//
// The engine is single-threaded. Every entry point runs synchronously on the
// UI goroutine and returns without blocking; mutations leave through a
// commit.Submitter and only show up in the engine once the mirror delivers
// them through Apply.
package editor

import (
	"log/slog"
	"strings"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/ledger"
	"github.com/five82/framegrid/internal/mouse"
	"github.com/five82/framegrid/internal/state"
	"github.com/five82/framegrid/internal/timing"
)

// Orientation is the grid layout. Vertical draws lines as columns with
// frames stacked downward; Horizontal draws lines as rows.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation maps a preference value to an Orientation. Unknown values
// are vertical.
func ParseOrientation(s string) Orientation {
	if strings.EqualFold(strings.TrimSpace(s), "horizontal") {
		return Horizontal
	}
	return Vertical
}

const (
	defaultSnap          = 0.25
	defaultPixelsPerBeat = 4.0
	defaultLanguage      = "bali"
)

// Options configures an Engine.
type Options struct {
	Submitter     commit.Submitter
	Board         Board
	Logger        *slog.Logger
	Capture       *mouse.Capture
	Orientation   Orientation
	Snap          float64
	PixelsPerBeat float64
	Language      string
	KeyMap        *KeyMap
}

// Engine owns every piece of interaction state for one grid view.
type Engine struct {
	grid     grid.Grid
	sel      Selection
	clip     *Block
	statuses ledger.Ledger[grid.CompileStatus]

	active        interaction
	capture       *mouse.Capture
	guard         mouse.Guard
	pendingPoint  *mouse.Point
	pendingTarget *grid.Cell

	submit        commit.Submitter
	board         Board
	logger        *slog.Logger
	keys          KeyMap
	orientation   Orientation
	snap          float64
	pixelsPerBeat float64
	lang          string
	structural    timing.Directive
}

type discard struct{}

func (discard) Submit(...commit.Request) {}

// New builds an Engine over an initial grid.
func New(g grid.Grid, opts Options) *Engine {
	e := &Engine{
		grid:          g,
		submit:        opts.Submitter,
		board:         opts.Board,
		logger:        opts.Logger,
		capture:       opts.Capture,
		orientation:   opts.Orientation,
		snap:          opts.Snap,
		pixelsPerBeat: opts.PixelsPerBeat,
		lang:          opts.Language,
		structural:    timing.Immediate(),
	}
	if e.submit == nil {
		e.submit = discard{}
	}
	if e.board == nil {
		e.board = &MemoryBoard{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.capture == nil {
		e.capture = &mouse.Capture{}
	}
	if e.snap <= 0 {
		e.snap = defaultSnap
	}
	if e.pixelsPerBeat <= 0 {
		e.pixelsPerBeat = defaultPixelsPerBeat
	}
	if e.lang == "" {
		e.lang = defaultLanguage
	}
	if opts.KeyMap != nil {
		e.keys = *opts.KeyMap
	} else {
		e.keys = DefaultKeyMap()
	}
	return e
}

// Apply folds mirror changes into the engine, in order. Structural events
// remap compile statuses and abandon an interaction whose cells they move.
func (e *Engine) Apply(changes ...state.Change) {
	for _, ch := range changes {
		for _, ev := range ch.Events {
			if err := e.statuses.Apply(ev); err != nil {
				e.logger.Error("status remap failed", "event", ev.Kind.String(), "error", err)
				e.statuses.Clear()
			}
			if e.stale(ev) {
				e.endInteraction("stale after " + ev.Kind.String())
			}
		}
		for _, r := range ch.Statuses {
			e.statuses.Set(r.Cell, r.Status)
		}
		e.grid = ch.Grid
	}
	if e.active != nil && !e.resolvable() {
		e.endInteraction("source gone")
	}
	if e.grid.Empty() {
		e.sel.Clear()
	}
}

// Close abandons any interaction and releases the pointer.
func (e *Engine) Close() {
	e.endInteraction("closed")
}

// PointerMove records the latest pointer position for the active resize or
// marquee. Positions are applied by FrameTick, so a burst of moves between
// two frames costs one update.
func (e *Engine) PointerMove(p mouse.Point) {
	switch e.active.(type) {
	case *resizing, *marquee:
		e.pendingPoint = &p
	}
}

// FrameTick applies the most recent coalesced pointer update.
func (e *Engine) FrameTick() {
	switch a := e.active.(type) {
	case *resizing:
		if e.pendingPoint != nil {
			e.moveResize(a, *e.pendingPoint)
		}
	case *marquee:
		if e.pendingPoint != nil {
			a.current = *e.pendingPoint
		}
	case *dragging:
		if e.pendingTarget != nil {
			e.moveDrag(a, *e.pendingTarget)
		}
	}
	e.pendingPoint = nil
	e.pendingTarget = nil
}

// PointerUp finishes a resize or drag. Marquees end through EndMarquee.
func (e *Engine) PointerUp(p mouse.Point) {
	switch a := e.active.(type) {
	case *resizing:
		e.pendingPoint = &p
		e.FrameTick()
		e.finishResize(a)
	case *dragging:
		e.FrameTick()
		e.finishDrag(a)
	}
}

// Grid returns the engine's copy of the mirror. Callers must not modify it.
func (e *Engine) Grid() grid.Grid {
	return e.grid
}

// Selection returns the current selection.
func (e *Engine) Selection() Selection {
	return e.sel
}

// SelectedCells returns the selected cells in row-major order.
func (e *Engine) SelectedCells() []grid.Cell {
	return e.sel.Cells(e.grid)
}

// IsSelected reports whether c is part of the selection.
func (e *Engine) IsSelected(c grid.Cell) bool {
	return e.sel.Contains(e.grid, c)
}

// Focus returns the focus cell.
func (e *Engine) Focus() (grid.Cell, bool) {
	return e.sel.Focus(e.grid)
}

// Select collapses the selection onto c.
func (e *Engine) Select(c grid.Cell) {
	e.sel.Select(e.grid, c)
}

// Extend moves the focus to c, keeping the anchor.
func (e *Engine) Extend(c grid.Cell) {
	e.sel.Extend(e.grid, c)
}

// Status returns the compile status recorded for c.
func (e *Engine) Status(c grid.Cell) (grid.CompileStatus, bool) {
	return e.statuses.Get(c)
}

// StructuralTiming is the directive attached to inserts, removals and moves.
func (e *Engine) StructuralTiming() timing.Directive {
	return e.structural
}

// Orientation returns the layout used for navigation and resize.
func (e *Engine) Orientation() Orientation {
	return e.orientation
}

// SetOrientation changes the layout. Any interaction in progress is
// cancelled since its pointer geometry no longer applies.
func (e *Engine) SetOrientation(o Orientation) {
	if o == e.orientation {
		return
	}
	e.endInteraction("orientation changed")
	e.orientation = o
}

// SetSnap changes the duration snap. Non-positive values are ignored.
func (e *Engine) SetSnap(v float64) {
	if v > 0 {
		e.snap = v
	}
}

// SetPixelsPerBeat changes the resize scale. Non-positive values are ignored.
func (e *Engine) SetPixelsPerBeat(v float64) {
	if v > 0 {
		e.pixelsPerBeat = v
	}
}

// KeyMap returns the active bindings.
func (e *Engine) KeyMap() KeyMap {
	return e.keys
}
