package editor

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// HandleKey runs the binding for msg and reports whether it was consumed.
// While a draft is open only commit and cancel are handled; everything else
// belongs to the text field. During a pointer interaction only cancel is.
func (e *Engine) HandleKey(msg tea.KeyMsg) bool {
	k := e.keys
	switch e.active.(type) {
	case *editing:
		switch {
		case key.Matches(msg, k.Commit):
			e.Commit(false)
		case key.Matches(msg, k.CommitHalf):
			e.Commit(true)
		case key.Matches(msg, k.Cancel):
			e.Cancel()
		default:
			return false
		}
		return true
	case nil:
	default:
		if key.Matches(msg, k.Cancel) {
			e.Cancel()
		}
		return true
	}

	switch {
	case key.Matches(msg, k.Up):
		e.step(e.verticalIsFrame(), -1, false)
	case key.Matches(msg, k.Down):
		e.step(e.verticalIsFrame(), 1, false)
	case key.Matches(msg, k.Left):
		e.step(!e.verticalIsFrame(), -1, false)
	case key.Matches(msg, k.Right):
		e.step(!e.verticalIsFrame(), 1, false)
	case key.Matches(msg, k.ExtUp):
		e.step(e.verticalIsFrame(), -1, true)
	case key.Matches(msg, k.ExtDown):
		e.step(e.verticalIsFrame(), 1, true)
	case key.Matches(msg, k.ExtLeft):
		e.step(!e.verticalIsFrame(), -1, true)
	case key.Matches(msg, k.ExtRight):
		e.step(!e.verticalIsFrame(), 1, true)
	case key.Matches(msg, k.Home):
		if c, ok := e.Focus(); ok {
			e.sel.Select(e.grid, grid.Cell{Line: c.Line, Frame: 0})
		}
	case key.Matches(msg, k.End):
		if c, ok := e.Focus(); ok {
			e.sel.Select(e.grid, grid.Cell{Line: c.Line, Frame: e.grid.FrameCount(c.Line) - 1})
		}
	case key.Matches(msg, k.Next):
		e.Cycle(true)
	case key.Matches(msg, k.Prev):
		e.Cycle(false)
	case key.Matches(msg, k.All):
		e.SelectAll()
	case key.Matches(msg, k.Copy):
		e.Copy()
	case key.Matches(msg, k.PasteAfter):
		e.pasteAtFocus(true)
	case key.Matches(msg, k.PasteBefore):
		e.pasteAtFocus(false)
	case key.Matches(msg, k.Duplicate):
		e.Duplicate()
	case key.Matches(msg, k.Delete):
		e.DeleteSelection()
	case key.Matches(msg, k.InsertBefore):
		e.InsertBlank(false)
	case key.Matches(msg, k.InsertAfter):
		e.InsertBlank(true)
	case key.Matches(msg, k.CycleTiming):
		e.structural = e.structural.Next()
	case key.Matches(msg, k.Longer):
		e.Nudge(e.snap)
	case key.Matches(msg, k.Shorter):
		e.Nudge(-e.snap)
	case key.Matches(msg, k.LongerHalf):
		e.Nudge(e.snap / 2)
	case key.Matches(msg, k.ShorterHalf):
		e.Nudge(-e.snap / 2)
	case key.Matches(msg, k.ToggleEnabled):
		e.ToggleEnabled()
	case key.Matches(msg, k.EditDuration):
		e.editFocus(FieldDuration)
	case key.Matches(msg, k.EditReps):
		e.editFocus(FieldRepetitions)
	case key.Matches(msg, k.EditName):
		e.editFocus(FieldName)
	case key.Matches(msg, k.EditStart):
		e.editFocus(FieldStartFrame)
	case key.Matches(msg, k.EditEnd):
		e.editFocus(FieldEndFrame)
	case key.Matches(msg, k.Cancel):
		e.sel.CollapseToFocus()
	default:
		return false
	}
	return true
}

// verticalIsFrame reports whether up/down walk frames rather than lines.
func (e *Engine) verticalIsFrame() bool {
	return e.orientation == Vertical
}

// step moves (or extends) the focus by delta along frames or lines.
func (e *Engine) step(alongFrames bool, delta int, extend bool) {
	from, ok := e.Focus()
	if !ok {
		e.sel.Select(e.grid, grid.Cell{})
		return
	}
	to := from
	if alongFrames {
		to.Frame += delta
	} else {
		to.Line = e.nextNonEmptyLine(from.Line, delta)
	}
	if extend {
		e.sel.Extend(e.grid, to)
	} else {
		e.sel.Select(e.grid, to)
	}
}

func (e *Engine) nextNonEmptyLine(from, delta int) int {
	for l := from + delta; l >= 0 && l < e.grid.LineCount(); l += delta {
		if e.grid.FrameCount(l) > 0 {
			return l
		}
	}
	return from
}

// Cycle moves the focus to the next (or previous) cell in row-major order,
// wrapping around the ends of the grid.
func (e *Engine) Cycle(forward bool) {
	cells := allCells(e.grid)
	if len(cells) == 0 {
		return
	}
	from, ok := e.Focus()
	if !ok {
		e.sel.Select(e.grid, cells[0])
		return
	}
	i := sort.Search(len(cells), func(i int) bool { return !cells[i].Less(from) })
	if forward {
		i = (i + 1) % len(cells)
	} else {
		i = (i - 1 + len(cells)) % len(cells)
	}
	e.sel.Select(e.grid, cells[i])
}

// SelectAll selects every frame.
func (e *Engine) SelectAll() {
	if e.grid.Empty() {
		return
	}
	widest := 0
	for l := range e.grid.Lines {
		widest = max(widest, e.grid.FrameCount(l))
	}
	e.sel.span(grid.Cell{Line: 0, Frame: 0}, grid.Cell{Line: e.grid.LineCount() - 1, Frame: widest - 1})
}

// Copy stores the selection in the clipboard and mirrors it to the board.
func (e *Engine) Copy() {
	b := CopyBlock(e.grid, e.SelectedCells())
	if b.Empty() {
		return
	}
	e.clip = &b
	e.logger.Debug("copied block", "frames", b.Count(), "lines", len(b.Rows))
	text, err := b.MarshalText()
	if err == nil {
		err = e.board.WriteAll(string(text))
	}
	if err != nil {
		e.logger.Debug("clipboard write failed", "error", err)
	}
}

// clipboardBlock returns the internal block, falling back to the board.
func (e *Engine) clipboardBlock() (Block, bool) {
	if e.clip != nil {
		return *e.clip, true
	}
	text, err := e.board.ReadAll()
	if err != nil || text == "" {
		return Block{}, false
	}
	b, err := ParseBlock([]byte(text))
	if err != nil {
		e.logger.Debug("clipboard has no block", "error", err)
		return Block{}, false
	}
	return b, !b.Empty()
}

// PasteBefore inserts the clipboard so its first frame lands at at.
func (e *Engine) PasteBefore(at grid.Cell) {
	e.paste(at, false)
}

// PasteAfter inserts the clipboard right after at.
func (e *Engine) PasteAfter(at grid.Cell) {
	e.paste(at, true)
}

func (e *Engine) pasteAtFocus(after bool) {
	at, ok := e.Focus()
	if !ok {
		if e.grid.LineCount() == 0 {
			return
		}
		at, after = grid.Cell{}, false
	}
	e.paste(at, after)
}

func (e *Engine) paste(at grid.Cell, after bool) {
	b, ok := e.clipboardBlock()
	if !ok {
		return
	}
	e.pasteBlock(b, at, after)
}

func (e *Engine) pasteBlock(b Block, at grid.Cell, after bool) {
	reqs, focus, ok := pasteRequests(e.grid, b, at, after, e.structural)
	if !ok {
		return
	}
	e.submit.Submit(reqs...)
	e.sel.span(focus, focus)
}

// Duplicate pastes a copy of the selection right after it, on the
// selection's first line, without touching the clipboard.
func (e *Engine) Duplicate() {
	cells := e.SelectedCells()
	lo, hi, ok := bounds(e.grid, cells)
	if !ok {
		return
	}
	e.pasteBlock(CopyBlock(e.grid, cells), grid.Cell{Line: lo.Line, Frame: hi.Frame}, true)
}

// DeleteSelection removes every selected frame, last first, and moves the
// focus to the nearest frame that will survive.
func (e *Engine) DeleteSelection() {
	cells := e.SelectedCells()
	if len(cells) == 0 {
		return
	}
	sort.Slice(cells, func(i, j int) bool { return cells[j].Less(cells[i]) })

	after := e.grid.Clone()
	reqs := make([]commit.Request, 0, len(cells))
	for _, c := range cells {
		reqs = append(reqs, commit.RemoveFrame(e.structural, c))
		frames := after.Lines[c.Line].Frames
		after.Lines[c.Line].Frames = append(frames[:c.Frame:c.Frame], frames[c.Frame+1:]...)
	}
	e.submit.Submit(reqs...)

	first := cells[len(cells)-1]
	if c, ok := clampCell(after, first); ok {
		e.sel.span(c, c)
	} else {
		e.sel.Clear()
	}
}

// InsertBlank inserts an empty frame before or after the focus and moves
// the focus onto it.
func (e *Engine) InsertBlank(after bool) {
	at, ok := e.Focus()
	if !ok {
		if e.grid.LineCount() == 0 {
			return
		}
		at, after = grid.Cell{}, false
	}
	if after {
		at.Frame++
	}
	e.submit.Submit(commit.AddFrame(e.structural, at, grid.NewFrame(e.lang)))
	e.sel.span(at, at)
}

// Nudge changes the duration of every selected frame by delta, snapped to
// |delta|.
func (e *Engine) Nudge(delta float64) {
	unit := delta
	if unit < 0 {
		unit = -unit
	}
	var edits []commit.FrameEdit
	for _, c := range e.SelectedCells() {
		f, ok := e.grid.Frame(c)
		if !ok {
			continue
		}
		next := snapBeats(f.Duration+delta, unit)
		if next == f.Duration {
			continue
		}
		f = f.Clone()
		f.Duration = next
		edits = append(edits, commit.FrameEdit{Cell: c, Frame: f})
	}
	if len(edits) > 0 {
		e.submit.Submit(commit.SetFrames(timing.Immediate(), edits...))
	}
}

// ToggleEnabled flips the focus frame's enabled flag and applies the result
// to every selected frame.
func (e *Engine) ToggleEnabled() {
	focus, ok := e.Focus()
	if !ok {
		return
	}
	ff, _ := e.grid.Frame(focus)
	enable := !ff.Enabled

	var edits []commit.FrameEdit
	for _, c := range e.SelectedCells() {
		f, ok := e.grid.Frame(c)
		if !ok || f.Enabled == enable {
			continue
		}
		f = f.Clone()
		f.Enabled = enable
		edits = append(edits, commit.FrameEdit{Cell: c, Frame: f})
	}
	if len(edits) > 0 {
		e.submit.Submit(commit.SetFrames(timing.Immediate(), edits...))
	}
}

func (e *Engine) editFocus(field Field) {
	if c, ok := e.Focus(); ok {
		e.StartEdit(field, c)
	}
}

// SetLanguage sets the script language given to new blank frames.
func (e *Engine) SetLanguage(lang string) {
	if lang != "" {
		e.lang = lang
	}
}

func allCells(g grid.Grid) []grid.Cell {
	var out []grid.Cell
	for l := range g.Lines {
		for f := range g.Lines[l].Frames {
			out = append(out, grid.Cell{Line: l, Frame: f})
		}
	}
	return out
}
