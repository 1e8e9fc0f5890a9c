package editor

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/state"
)

// recorder is a commit.Submitter that keeps every sequence.
type recorder struct {
	seqs [][]commit.Request
}

func (r *recorder) Submit(reqs ...commit.Request) {
	r.seqs = append(r.seqs, append([]commit.Request(nil), reqs...))
}

func (r *recorder) all() []commit.Request {
	var out []commit.Request
	for _, s := range r.seqs {
		out = append(out, s...)
	}
	return out
}

// makeGrid builds lines with the given frame counts. Every frame is named
// "line.frame" so moves can be traced.
func makeGrid(counts ...int) grid.Grid {
	var g grid.Grid
	for l, n := range counts {
		line := grid.Line{SpeedFactor: 1}
		for f := 0; f < n; f++ {
			fr := grid.NewFrame("bali")
			name := fmt.Sprintf("%d.%d", l, f)
			fr.Name = &name
			line.Frames = append(line.Frames, fr)
		}
		g.Lines = append(g.Lines, line)
	}
	return g
}

func newTestEngine(t *testing.T, g grid.Grid) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := New(g, Options{Submitter: rec, Board: &MemoryBoard{}})
	t.Cleanup(e.Close)
	return e, rec
}

// simulate applies reqs the way the authority would and reports the
// structural events it emits.
func simulate(g grid.Grid, reqs []commit.Request) (grid.Grid, []grid.Event) {
	g = g.Clone()
	var events []grid.Event
	for _, r := range reqs {
		switch r.Kind {
		case commit.KindAddFrame:
			frames := g.Lines[r.At.Line].Frames
			frames = append(frames[:r.At.Frame:r.At.Frame], append([]grid.Frame{r.Insert.Clone()}, frames[r.At.Frame:]...)...)
			g.Lines[r.At.Line].Frames = frames
			events = append(events, grid.Event{Kind: grid.FrameInserted, Line: r.At.Line, Frame: r.At.Frame})
		case commit.KindRemoveFrame:
			frames := g.Lines[r.At.Line].Frames
			g.Lines[r.At.Line].Frames = append(frames[:r.At.Frame:r.At.Frame], frames[r.At.Frame+1:]...)
			events = append(events, grid.Event{Kind: grid.FrameRemoved, Line: r.At.Line, Frame: r.At.Frame})
		case commit.KindSetFrames:
			for _, fe := range r.Frames {
				g.Lines[fe.Cell.Line].Frames[fe.Cell.Frame] = fe.Frame.Clone()
			}
		case commit.KindSetLines:
			for _, le := range r.Lines {
				g.Lines[le.Line] = le.Value.Clone()
			}
		}
	}
	return g, events
}

// settle feeds the recorded requests back through the engine as a mirror
// change and clears the recorder.
func settle(e *Engine, rec *recorder) grid.Grid {
	g, events := simulate(e.Grid(), rec.all())
	e.Apply(state.Change{Grid: g, Events: events})
	rec.seqs = nil
	return g
}

func names(l grid.Line) []string {
	var out []string
	for _, f := range l.Frames {
		out = append(out, f.DisplayName())
	}
	return out
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func cell(l, f int) grid.Cell { return grid.Cell{Line: l, Frame: f} }

func stateChange(g grid.Grid, events ...grid.Event) state.Change {
	return state.Change{Grid: g, Events: events}
}
