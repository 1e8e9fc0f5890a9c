package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// Block is a line-major rectangle of copied frames. A nil entry is a hole:
// a cell inside the bounding box that was not selected or did not exist.
type Block struct {
	Rows [][]*grid.Frame `json:"rows"`
}

// CopyBlock copies cells out of g into a Block sized to their bounding box.
// Frames are deep-cloned.
func CopyBlock(g grid.Grid, cells []grid.Cell) Block {
	var picked []grid.Cell
	for _, c := range cells {
		if g.Has(c) {
			picked = append(picked, c)
		}
	}
	if len(picked) == 0 {
		return Block{}
	}
	loL, hiL := picked[0].Line, picked[0].Line
	loF, hiF := picked[0].Frame, picked[0].Frame
	for _, c := range picked[1:] {
		loL, hiL = min(loL, c.Line), max(hiL, c.Line)
		loF, hiF = min(loF, c.Frame), max(hiF, c.Frame)
	}

	rows := make([][]*grid.Frame, hiL-loL+1)
	for i := range rows {
		rows[i] = make([]*grid.Frame, hiF-loF+1)
	}
	for _, c := range picked {
		f, _ := g.Frame(c)
		dup := f.Clone()
		rows[c.Line-loL][c.Frame-loF] = &dup
	}
	return Block{Rows: rows}
}

// Empty reports whether the block holds no frames.
func (b Block) Empty() bool {
	for _, row := range b.Rows {
		for _, f := range row {
			if f != nil {
				return false
			}
		}
	}
	return true
}

// Count returns the number of frames in the block.
func (b Block) Count() int {
	n := 0
	for _, row := range b.Rows {
		for _, f := range row {
			if f != nil {
				n++
			}
		}
	}
	return n
}

// pasteRequests plans the inserts that paste b at cell at. Row i of the
// block lands on line at.Line+i; rows past the last line are skipped. Each
// row's frames are inserted at increasing positions so their order holds.
// The returned cell is the new focus: the first inserted cell when pasting
// before, the cell right after the last inserted one when pasting after.
func pasteRequests(g grid.Grid, b Block, at grid.Cell, after bool, t timing.Directive) ([]commit.Request, grid.Cell, bool) {
	base := max(at.Frame, 0)
	if after {
		base++
	}

	var reqs []commit.Request
	var first, last grid.Cell
	for i, row := range b.Rows {
		line := at.Line + i
		if line < 0 || line >= g.LineCount() {
			continue
		}
		pos := min(base, g.FrameCount(line))
		for _, f := range row {
			if f == nil {
				continue
			}
			cell := grid.Cell{Line: line, Frame: pos}
			if len(reqs) == 0 {
				first = cell
			}
			last = cell
			reqs = append(reqs, commit.AddFrame(t, cell, f.Clone()))
			pos++
		}
	}
	if len(reqs) == 0 {
		return nil, grid.Cell{}, false
	}
	if after {
		return reqs, grid.Cell{Line: last.Line, Frame: last.Frame + 1}, true
	}
	return reqs, first, true
}

const blockKind = "framegrid/block"

type blockText struct {
	Kind string          `json:"kind"`
	Rows [][]*grid.Frame `json:"rows"`
}

// MarshalText encodes the block for the system clipboard.
func (b Block) MarshalText() ([]byte, error) {
	return json.Marshal(blockText{Kind: blockKind, Rows: b.Rows})
}

// ParseBlock decodes text produced by MarshalText.
func ParseBlock(data []byte) (Block, error) {
	var bt blockText
	if err := json.Unmarshal(data, &bt); err != nil {
		return Block{}, fmt.Errorf("decode block: %w", err)
	}
	if bt.Kind != blockKind {
		return Block{}, errors.New("decode block: not a framegrid block")
	}
	return Block{Rows: bt.Rows}, nil
}

// Board is a text clipboard.
type Board interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemBoard is the platform clipboard.
type SystemBoard struct{}

func (SystemBoard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemBoard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// MemoryBoard is an in-process clipboard used when the platform has none.
type MemoryBoard struct {
	Text string
}

func (m *MemoryBoard) ReadAll() (string, error) { return m.Text, nil }

func (m *MemoryBoard) WriteAll(text string) error {
	m.Text = text
	return nil
}

// DefaultBoard returns the system clipboard when one is available and an
// in-memory board otherwise.
func DefaultBoard() Board {
	if clipboard.Unsupported {
		return &MemoryBoard{}
	}
	return SystemBoard{}
}
