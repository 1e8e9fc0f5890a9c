package ui

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/editor"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/prefs"
	"github.com/five82/framegrid/internal/state"
	"github.com/five82/framegrid/internal/timing"
)

type recorder struct {
	seqs [][]commit.Request
}

func (r *recorder) Submit(reqs ...commit.Request) {
	r.seqs = append(r.seqs, append([]commit.Request(nil), reqs...))
}

// lines builds a grid with one line per argument; each line holds frames
// of the given durations.
func lines(durations ...[]float64) grid.Grid {
	var g grid.Grid
	for _, ds := range durations {
		line := grid.Line{SpeedFactor: 1}
		for _, d := range ds {
			f := grid.NewFrame("bali")
			f.Duration = d
			line.Frames = append(line.Frames, f)
		}
		g.Lines = append(g.Lines, line)
	}
	return g
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func newTestModel(t *testing.T, g grid.Grid) (Model, *recorder, string) {
	t.Helper()
	rec := &recorder{}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Submitter: rec,
		Board:     &editor.MemoryBoard{},
		Prefs:     prefs.Default(),
		PrefsPath: prefsPath,
		LogPath:   filepath.Join(t.TempDir(), "framegrid.log"),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, changesMsg{{Version: 1, Grid: g}})
	_ = m.View()
	t.Cleanup(m.Engine().Close)
	return m, rec, prefsPath
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_ResizeByDraggingTrailingEdge(t *testing.T) {
	m, rec, _ := newTestModel(t, lines([]float64{1, 1}))

	// Frame (0,0) spans screen rows 2-5; row 5 is its trailing edge.
	m = update(t, m, press(3, 5))
	if m.Engine().Mode() != editor.ModeResizing {
		t.Fatalf("Mode = %v, want resizing", m.Engine().Mode())
	}
	m = update(t, m, motion(3, 9))
	if _, d, _ := m.Engine().ResizePreview(); d != 1 {
		t.Fatalf("preview = %v before the frame tick, want 1", d)
	}
	m = update(t, m, frameTickMsg{})
	if _, d, _ := m.Engine().ResizePreview(); d != 2 {
		t.Fatalf("preview = %v after the frame tick, want 2", d)
	}
	m = update(t, m, release(3, 9))

	if m.Engine().Mode() != editor.ModeIdle {
		t.Fatalf("Mode = %v after release, want idle", m.Engine().Mode())
	}
	if len(rec.seqs) != 1 || len(rec.seqs[0]) != 1 {
		t.Fatalf("submitted %v, want one set-frames", rec.seqs)
	}
	req := rec.seqs[0][0]
	if req.Kind != commit.KindSetFrames || req.Timing != timing.Immediate() {
		t.Fatalf("request = %s, want immediate set-frames", req.String())
	}
	if got := req.Frames[0].Frame.Duration; got != 2 {
		t.Fatalf("duration = %v, want 2", got)
	}
}

func TestModel_DragFrameDownTheLine(t *testing.T) {
	m, rec, _ := newTestModel(t, lines([]float64{1, 1, 1}))

	m = update(t, m, press(3, 2))
	if m.Engine().Mode() != editor.ModeDragging {
		t.Fatalf("Mode = %v, want dragging", m.Engine().Mode())
	}
	m = update(t, m, motion(3, 11))
	m = update(t, m, frameTickMsg{})
	if _, target, ok := m.Engine().DropIndicator(); !ok || target != (grid.Cell{Line: 0, Frame: 2}) {
		t.Fatalf("drop target = %v, %v, want (0,2)", target, ok)
	}
	_ = m.View()
	m = update(t, m, release(3, 11))

	if len(rec.seqs) != 1 || len(rec.seqs[0]) != 2 {
		t.Fatalf("submitted %v, want one two-step sequence", rec.seqs)
	}
	add, remove := rec.seqs[0][0], rec.seqs[0][1]
	if add.Kind != commit.KindAddFrame || add.At != (grid.Cell{Line: 0, Frame: 2}) {
		t.Fatalf("first step = %s, want add-frame at (0,2)", add.String())
	}
	if remove.Kind != commit.KindRemoveFrame || remove.At != (grid.Cell{Line: 0, Frame: 0}) {
		t.Fatalf("second step = %s, want remove-frame at (0,0)", remove.String())
	}
	if focus, _ := m.Engine().Focus(); focus != (grid.Cell{Line: 0, Frame: 1}) {
		t.Fatalf("focus = %v, want the predicted (0,1)", focus)
	}
}

func TestModel_ClickWithoutMovingSendsNothing(t *testing.T) {
	m, rec, _ := newTestModel(t, lines([]float64{1, 1}))

	m = update(t, m, press(3, 7))
	m = update(t, m, release(3, 7))

	if len(rec.seqs) != 0 {
		t.Fatalf("submitted %v, want nothing", rec.seqs)
	}
	if focus, ok := m.Engine().Focus(); !ok || focus != (grid.Cell{Line: 0, Frame: 1}) {
		t.Fatalf("focus = %v, %v, want (0,1)", focus, ok)
	}
}

func TestModel_MarqueeSelectsCoveredBlock(t *testing.T) {
	m, _, _ := newTestModel(t, lines([]float64{1, 1}, []float64{1, 1}))

	// Row 10 is empty lane space below the frames of line 0.
	m = update(t, m, press(3, 10))
	if m.Engine().Mode() != editor.ModeMarquee {
		t.Fatalf("Mode = %v, want marquee", m.Engine().Mode())
	}
	m = update(t, m, motion(15, 3))
	m = update(t, m, release(15, 3))

	if got := len(m.Engine().SelectedCells()); got != 4 {
		t.Fatalf("selected %d cells, want 4", got)
	}
	if m.mouse.Capture.Held() {
		t.Fatalf("capture still held after release")
	}
}

func TestModel_EditDurationThroughTextInput(t *testing.T) {
	m, rec, _ := newTestModel(t, lines([]float64{1}))
	m.Engine().Select(grid.Cell{Line: 0, Frame: 0})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.input.Focused() || m.input.Value() != "1" {
		t.Fatalf("input = %q focused=%v, want \"1\" focused", m.input.Value(), m.input.Focused())
	}
	m = update(t, m, runes("2"))
	if _, _, draft, _ := m.Engine().Draft(); draft != "12" {
		t.Fatalf("draft = %q, want 12", draft)
	}
	if !strings.Contains(m.View(), "duration") {
		t.Fatalf("footer does not show the field being edited")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.input.Focused() {
		t.Fatalf("input still focused after commit")
	}
	if len(rec.seqs) != 1 || rec.seqs[0][0].Frames[0].Frame.Duration != 12 {
		t.Fatalf("submitted %v, want duration 12", rec.seqs)
	}
}

func TestModel_EditingSwallowsShellKeys(t *testing.T) {
	m, _, _ := newTestModel(t, lines([]float64{1}))
	m.Engine().Select(grid.Cell{Line: 0, Frame: 0})

	m = update(t, m, runes("n"))
	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	if cmd != nil {
		if _, quit := cmd().(tea.QuitMsg); quit {
			t.Fatalf("q quit while editing a name")
		}
	}
	if _, _, draft, _ := m.Engine().Draft(); draft != "q" {
		t.Fatalf("draft = %q, want q", draft)
	}
}

func TestModel_OrientationAndThemePersist(t *testing.T) {
	m, _, prefsPath := newTestModel(t, lines([]float64{1}))

	m = update(t, m, runes("o"))
	m = update(t, m, runes("T"))

	if m.Engine().Orientation() != editor.Horizontal {
		t.Fatalf("Orientation = %v, want horizontal", m.Engine().Orientation())
	}
	saved, err := prefs.Load(prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Orientation != "horizontal" || saved.Theme != "Slate" {
		t.Fatalf("saved prefs = %#v, want horizontal and Slate", saved)
	}
}

func TestModel_PrefsUpdateAppliesLive(t *testing.T) {
	m, _, _ := newTestModel(t, lines([]float64{1}))

	p := prefs.Default()
	p.Theme = "Nightfox"
	p.Orientation = "horizontal"
	m = update(t, m, prefsMsg(p))

	if m.theme.Name != "Nightfox" || m.Engine().Orientation() != editor.Horizontal {
		t.Fatalf("theme %q orientation %v, want Nightfox horizontal", m.theme.Name, m.Engine().Orientation())
	}
}

func TestModel_HelpAndLogOverlays(t *testing.T) {
	m, _, _ := newTestModel(t, lines([]float64{1}))
	if err := os.WriteFile(m.logPath, []byte("time=2026-10-18T10:00:00.000Z level=WARN msg=\"grid poll failed\" failures=1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m = update(t, m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("help still open after a key")
	}

	m = update(t, m, runes("L"))
	if !m.showLogs || !strings.Contains(m.logView.View(), "grid poll failed") {
		t.Fatalf("log overlay = %q, want the poll failure", m.logView.View())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showLogs {
		t.Fatalf("log overlay still open after esc")
	}
}

func TestModel_QuitClosesInteraction(t *testing.T) {
	m, _, _ := newTestModel(t, lines([]float64{1}))

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestModel_StaleChangeAbandonsDrag(t *testing.T) {
	m, rec, _ := newTestModel(t, lines([]float64{1, 1, 1}))

	m = update(t, m, press(3, 6))
	if src, ok := m.Engine().DragSource(); !ok || src != (grid.Cell{Line: 0, Frame: 1}) {
		t.Fatalf("DragSource = %v, %v, want (0,1)", src, ok)
	}
	m = update(t, m, changesMsg{{
		Version: 2,
		Grid:    lines([]float64{1, 1}),
		Events:  []grid.Event{{Kind: grid.FrameRemoved, Line: 0, Frame: 0}},
	}})
	if m.Engine().Mode() != editor.ModeIdle || m.mouse.Capture.Held() {
		t.Fatalf("drag survived a shift of its source")
	}
	m = update(t, m, release(3, 11))
	if len(rec.seqs) != 0 {
		t.Fatalf("submitted %v after an abandoned drag", rec.seqs)
	}
}

func TestStatusSegments(t *testing.T) {
	e := editor.New(lines([]float64{1, 1}), editor.Options{})
	t.Cleanup(e.Close)

	got := strings.Join(statusSegments(e, state.Snapshot{}, 0), "|")
	if !strings.Contains(got, "no selection") || !strings.Contains(got, "connecting") {
		t.Fatalf("segments = %q", got)
	}

	e.Select(grid.Cell{Line: 0, Frame: 0})
	e.Extend(grid.Cell{Line: 0, Frame: 1})
	e.Apply(state.Change{
		Grid:     e.Grid(),
		Statuses: []grid.StatusReport{{Cell: grid.Cell{Line: 0, Frame: 1}, Status: grid.CompileStatus{State: grid.CompileFailed, Message: "bad token"}}},
	})
	snap := state.Snapshot{HasGrid: true, ConsecutiveFailures: 3}
	got = strings.Join(statusSegments(e, snap, 2), "|")
	for _, want := range []string{"L0·F1", "2 selected from L0·F0", "compile failed: bad token", "timing immediate", "offline (3 failures)", "2 rejected"} {
		if !strings.Contains(got, want) {
			t.Fatalf("segments = %q, want %q", got, want)
		}
	}
}
