package editor

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

func TestCopyBlock_BoundingBoxWithHoles(t *testing.T) {
	g := makeGrid(3, 1)
	b := CopyBlock(g, []grid.Cell{cell(0, 0), cell(0, 2), cell(1, 0), cell(5, 5)})

	if len(b.Rows) != 2 || len(b.Rows[0]) != 3 || len(b.Rows[1]) != 3 {
		t.Fatalf("block shape = %dx?, want 2x3: %#v", len(b.Rows), b.Rows)
	}
	if b.Rows[0][1] != nil || b.Rows[1][1] != nil || b.Rows[1][2] != nil {
		t.Fatal("unselected cells should be holes")
	}
	if b.Rows[0][2].DisplayName() != "0.2" || b.Rows[1][0].DisplayName() != "1.0" {
		t.Fatalf("unexpected frames in block: %#v", b.Rows)
	}
	if b.Count() != 3 {
		t.Fatalf("Count = %d, want 3", b.Count())
	}

	// Later edits to the grid must not reach the block.
	*g.Lines[0].Frames[0].Name = "changed"
	g.Lines[0].Frames[0].Duration = 9
	if b.Rows[0][0].DisplayName() != "0.0" || b.Rows[0][0].Duration != 1 {
		t.Fatalf("block shares state with grid: %#v", b.Rows[0][0])
	}

	if !CopyBlock(g, nil).Empty() {
		t.Fatal("copying nothing should give an empty block")
	}
}

func TestPasteRequests_OrderAndFocus(t *testing.T) {
	g := makeGrid(2, 2)
	b := CopyBlock(g, []grid.Cell{cell(0, 0), cell(0, 1), cell(1, 0), cell(1, 1)})

	reqs, focus, ok := pasteRequests(g, b, cell(1, 0), false, timing.Immediate())
	if !ok {
		t.Fatal("pasteRequests reported nothing to paste")
	}
	// Row 1 would land on line 2, which does not exist.
	if len(reqs) != 2 {
		t.Fatalf("requests = %v, want 2 (second row skipped)", reqs)
	}
	for i, r := range reqs {
		if r.Kind != commit.KindAddFrame || r.At != cell(1, i) {
			t.Fatalf("reqs[%d] = %s, want add-frame at (1,%d)", i, r, i)
		}
	}
	if focus != cell(1, 0) {
		t.Fatalf("focus = %v, want first inserted (1,0)", focus)
	}

	reqs, focus, _ = pasteRequests(g, b, cell(0, 1), true, timing.Immediate())
	if len(reqs) != 4 || reqs[0].At != cell(0, 2) || reqs[2].At != cell(1, 2) {
		t.Fatalf("after-paste requests = %v", reqs)
	}
	if focus != cell(1, 4) {
		t.Fatalf("focus = %v, want cell after last inserted (1,4)", focus)
	}

	if _, _, ok := pasteRequests(g, Block{}, cell(0, 0), false, timing.Immediate()); ok {
		t.Fatal("empty block should paste nothing")
	}
}

func TestBlockText_RoundTrip(t *testing.T) {
	g := makeGrid(2)
	b := CopyBlock(g, []grid.Cell{cell(0, 1)})
	text, err := b.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	got, err := ParseBlock(text)
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if got.Count() != 1 || got.Rows[0][0].DisplayName() != "0.1" {
		t.Fatalf("parsed block = %#v", got.Rows)
	}

	for _, in := range []string{"hello", `{"kind":"other","rows":[]}`} {
		if _, err := ParseBlock([]byte(in)); err == nil {
			t.Fatalf("ParseBlock(%q) succeeded, want error", in)
		}
	}
}

func TestPaste_RoundTripReproducesFrames(t *testing.T) {
	g := makeGrid(3)
	g.Lines[0].Frames[1].Duration = 2.5
	g.Lines[0].Frames[1].Repetitions = 3
	g.Lines[0].Frames[2].Enabled = false
	e, rec := newTestEngine(t, g)

	e.Select(cell(0, 0))
	e.Extend(cell(0, 2))
	e.Copy()
	e.PasteAfter(cell(0, 2))

	after := settle(e, rec)
	if after.FrameCount(0) != 6 {
		t.Fatalf("frame count = %d, want 6", after.FrameCount(0))
	}
	for i := 0; i < 3; i++ {
		orig, pasted := after.Lines[0].Frames[i], after.Lines[0].Frames[i+3]
		if orig.Duration != pasted.Duration || orig.Repetitions != pasted.Repetitions ||
			orig.Enabled != pasted.Enabled || orig.DisplayName() != pasted.DisplayName() {
			t.Fatalf("pasted frame %d = %#v, want copy of %#v", i, pasted, orig)
		}
	}
}

func TestPaste_FallsBackToBoard(t *testing.T) {
	board := &MemoryBoard{}
	src := New(makeGrid(2), Options{Board: board})
	src.Select(cell(0, 1))
	src.Copy()
	if board.Text == "" {
		t.Fatal("Copy did not write the board")
	}

	rec := &recorder{}
	dst := New(makeGrid(1), Options{Submitter: rec, Board: board})
	dst.PasteBefore(cell(0, 0))
	reqs := rec.all()
	if len(reqs) != 1 || reqs[0].Insert.DisplayName() != "0.1" {
		t.Fatalf("requests = %v, want the board's frame", reqs)
	}

	board.Text = "not a block"
	rec.seqs = nil
	fresh := New(makeGrid(1), Options{Submitter: rec, Board: board})
	fresh.PasteBefore(cell(0, 0))
	if len(rec.all()) != 0 {
		t.Fatalf("requests = %v, want none for foreign text", rec.all())
	}
}

type failingBoard struct{}

func (failingBoard) ReadAll() (string, error) { return "", errors.New("no clipboard") }

func (failingBoard) WriteAll(string) error { return errors.New("no clipboard") }

func TestCopy_LogsBlockSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(makeGrid(3, 3), Options{Board: &MemoryBoard{}, Logger: logger})
	e.Select(cell(0, 0))
	e.Extend(cell(1, 1))
	e.Copy()

	if !strings.Contains(buf.String(), `msg="copied block" frames=4 lines=2`) {
		t.Fatalf("log = %q, want the copied block size", buf.String())
	}
}

func TestCopy_BoardFailureKeepsInternalBlock(t *testing.T) {
	rec := &recorder{}
	e := New(makeGrid(2), Options{Submitter: rec, Board: failingBoard{}})
	e.Select(cell(0, 0))
	e.Copy()
	e.PasteAfter(cell(0, 1))
	if len(rec.all()) != 1 {
		t.Fatalf("requests = %v, want paste from internal block", rec.all())
	}
}
