package editor

import (
	"math"
	"strconv"
	"strings"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// Field names an editable value.
type Field int

const (
	FieldDuration Field = iota
	FieldRepetitions
	FieldName
	FieldStartFrame
	FieldEndFrame
)

func (f Field) String() string {
	switch f {
	case FieldDuration:
		return "duration"
	case FieldRepetitions:
		return "repetitions"
	case FieldName:
		return "name"
	case FieldStartFrame:
		return "start frame"
	case FieldEndFrame:
		return "end frame"
	}
	return "field(" + strconv.Itoa(int(f)) + ")"
}

// LineScoped reports whether f belongs to a line rather than a frame.
func (f Field) LineScoped() bool {
	return f == FieldStartFrame || f == FieldEndFrame
}

type editing struct {
	cell  grid.Cell
	field Field
	draft string
}

// StartEdit opens a draft for field at c, seeded with the current value.
// For line fields only c.Line is used. Nothing happens if the target does
// not exist.
func (e *Engine) StartEdit(field Field, c grid.Cell) {
	var value string
	if field.LineScoped() {
		line, ok := e.grid.Line(c.Line)
		if !ok {
			return
		}
		c = grid.LineCell(c.Line)
		bound := line.StartFrame
		if field == FieldEndFrame {
			bound = line.EndFrame
		}
		if bound != nil {
			value = strconv.Itoa(*bound)
		}
	} else {
		f, ok := e.grid.Frame(c)
		if !ok {
			return
		}
		switch field {
		case FieldDuration:
			value = formatBeats(f.Duration)
		case FieldRepetitions:
			value = strconv.Itoa(f.Reps())
		case FieldName:
			value = f.DisplayName()
		default:
			return
		}
	}
	e.begin(&editing{cell: c, field: field, draft: value})
}

// UpdateDraft replaces the draft text.
func (e *Engine) UpdateDraft(value string) {
	if ed, ok := e.active.(*editing); ok {
		ed.draft = value
	}
}

// Draft returns the open draft.
func (e *Engine) Draft() (field Field, cell grid.Cell, value string, ok bool) {
	ed, ok := e.active.(*editing)
	if !ok {
		return 0, grid.Cell{}, "", false
	}
	return ed.field, ed.cell, ed.draft, true
}

// Cancel ends the active interaction without committing anything.
func (e *Engine) Cancel() {
	e.endInteraction("cancelled")
}

// Commit closes the draft. A valid value is sent to the authority; an
// invalid one is dropped. halfSnap rounds durations to half the snap.
func (e *Engine) Commit(halfSnap bool) {
	ed, ok := e.active.(*editing)
	if !ok {
		return
	}
	e.endInteraction("")

	if ed.field.LineScoped() {
		e.commitLineField(ed)
		return
	}

	f, ok := e.grid.Frame(ed.cell)
	if !ok {
		return
	}
	f = f.Clone()
	text := strings.TrimSpace(ed.draft)
	switch ed.field {
	case FieldDuration:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return
		}
		f.Duration = snapBeats(v, e.snapUnit(halfSnap))
	case FieldRepetitions:
		v, err := strconv.Atoi(text)
		if err != nil || v < 1 {
			return
		}
		f.Repetitions = v
	case FieldName:
		if text == "" {
			f.Name = nil
		} else {
			f.Name = &text
		}
	}
	e.submit.Submit(commit.SetFrames(timing.Immediate(), commit.FrameEdit{Cell: ed.cell, Frame: f}))
}

func (e *Engine) commitLineField(ed *editing) {
	line, ok := e.grid.Line(ed.cell.Line)
	if !ok {
		return
	}
	line = line.Clone()

	var bound *int
	if text := strings.TrimSpace(ed.draft); text != "" {
		v, err := strconv.Atoi(text)
		if err != nil || v < 0 || v >= len(line.Frames) {
			return
		}
		bound = &v
	}
	if ed.field == FieldStartFrame {
		line.StartFrame = bound
	} else {
		line.EndFrame = bound
	}
	if line.StartFrame != nil && line.EndFrame != nil && *line.StartFrame > *line.EndFrame {
		return
	}
	e.submit.Submit(commit.SetLines(timing.EndOfLine(ed.cell.Line), commit.LineEdit{Line: ed.cell.Line, Value: line}))
}

func (e *Engine) snapUnit(half bool) float64 {
	if half {
		return e.snap / 2
	}
	return e.snap
}

// snapBeats rounds v to the nearest multiple of unit, never below one unit.
func snapBeats(v, unit float64) float64 {
	if unit <= 0 {
		return v
	}
	v = unit * math.Round(v/unit)
	if v < unit {
		return unit
	}
	return v
}

func formatBeats(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
