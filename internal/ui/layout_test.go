package ui

import (
	"strings"
	"testing"

	"github.com/five82/framegrid/internal/editor"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/mouse"
)

func TestFrameSpan(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		reps     int
		ppb      float64
		minimum  int
		want     int
	}{
		{"one beat", 1, 1, 4, 2, 4},
		{"repeated", 1, 3, 4, 2, 12},
		{"rounds", 0.6, 1, 4, 1, 2},
		{"floor at minimum", 0.25, 1, 4, 2, 2},
		{"invalid reps count once", 2, 0, 4, 2, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameSpan(tt.duration, tt.reps, tt.ppb, tt.minimum); got != tt.want {
				t.Fatalf("frameSpan = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeGeometry_Vertical(t *testing.T) {
	geo := computeGeometry(lines([]float64{1, 0.25}, []float64{2}), editor.Vertical, 4, nil)

	want := map[grid.Cell]mouse.Rect{
		{Line: 0, Frame: 0}: {X: 0, Y: 1, W: columnWidth, H: 4},
		{Line: 0, Frame: 1}: {X: 0, Y: 5, W: columnWidth, H: 2},
		{Line: 1, Frame: 0}: {X: columnWidth + laneGap, Y: 1, W: columnWidth, H: 8},
	}
	for c, r := range want {
		b, ok := geo.box(c)
		if !ok {
			t.Fatalf("no box for %v", c)
		}
		if b.rect != r {
			t.Fatalf("box %v = %+v, want %+v", c, b.rect, r)
		}
		if b.edge.Y != r.Y+r.H-1 || b.edge.H != 1 {
			t.Fatalf("edge %v = %+v, want the last row", c, b.edge)
		}
	}
	if geo.height != 1+8+trailingMargin {
		t.Fatalf("height = %d, want %d", geo.height, 1+8+trailingMargin)
	}
	if geo.width != 2*columnWidth+laneGap {
		t.Fatalf("width = %d", geo.width)
	}
}

func TestComputeGeometry_HorizontalWithPreview(t *testing.T) {
	preview := func(c grid.Cell) (float64, bool) {
		return 2, c == grid.Cell{Line: 0, Frame: 0}
	}
	geo := computeGeometry(lines([]float64{1, 1}), editor.Horizontal, 4, preview)

	first, _ := geo.box(grid.Cell{Line: 0, Frame: 0})
	second, _ := geo.box(grid.Cell{Line: 0, Frame: 1})
	if first.rect != (mouse.Rect{X: labelWidth, Y: 0, W: 8, H: rowHeight}) {
		t.Fatalf("first = %+v, want the previewed width 8", first.rect)
	}
	if second.rect.X != labelWidth+8 || second.rect.W != 4 {
		t.Fatalf("second = %+v, want it to start after the preview", second.rect)
	}
	if first.edge.X != labelWidth+7 || first.edge.W != 1 {
		t.Fatalf("edge = %+v, want the last column", first.edge)
	}
}

func TestDropTarget(t *testing.T) {
	g := lines([]float64{1, 1})
	cellRegion := &mouse.Region{ID: regionCell, Rect: mouse.Rect{X: 0, Y: 10, W: 12, H: 4}, Data: grid.Cell{Line: 0, Frame: 1}}

	tests := []struct {
		name   string
		o      editor.Orientation
		region *mouse.Region
		p      mouse.Point
		want   grid.Cell
		ok     bool
	}{
		{"leading half", editor.Vertical, cellRegion, mouse.Point{X: 2, Y: 11}, grid.Cell{Line: 0, Frame: 1}, true},
		{"trailing half", editor.Vertical, cellRegion, mouse.Point{X: 2, Y: 12}, grid.Cell{Line: 0, Frame: 2}, true},
		{"horizontal uses x", editor.Horizontal, cellRegion, mouse.Point{X: 9, Y: 10}, grid.Cell{Line: 0, Frame: 2}, true},
		{"edge inserts after", editor.Vertical, &mouse.Region{ID: regionEdge, Data: grid.Cell{Line: 0, Frame: 0}}, mouse.Point{}, grid.Cell{Line: 0, Frame: 1}, true},
		{"lane appends", editor.Vertical, &mouse.Region{ID: regionLane, Data: 0}, mouse.Point{}, grid.Cell{Line: 0, Frame: 2}, true},
		{"nothing", editor.Vertical, nil, mouse.Point{}, grid.Cell{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dropTarget(g, tt.o, tt.region, tt.p)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("dropTarget = %v, %v, want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestRegister_OffsetsAndClipsToBody(t *testing.T) {
	geo := computeGeometry(lines([]float64{1, 1, 1}), editor.Vertical, 4, nil)
	hits := mouse.NewHitMap()
	body := mouse.Rect{X: 0, Y: 1, W: 80, H: 6}

	// Scrolled down by 5 rows: frame 0 is off screen.
	geo.register(hits, mouse.Point{X: 0, Y: 1 - 5}, body)

	var cells []grid.Cell
	for _, r := range hits.Intersecting(regionCell, body) {
		cells = append(cells, r.Data.(grid.Cell))
	}
	if len(cells) != 2 || cells[0].Frame != 1 || cells[1].Frame != 2 {
		t.Fatalf("visible cells = %v, want frames 1 and 2", cells)
	}
	if r := hits.Test(3, 2); r == nil || r.ID != regionCell || r.Data.(grid.Cell).Frame != 1 {
		t.Fatalf("Test(3,2) = %+v, want frame 1", r)
	}
	if got := coveredCells(hits, mouse.Rect{X: 0, Y: 1, W: 2, H: 2}); len(got) != 1 {
		t.Fatalf("coveredCells = %v, want one cell", got)
	}
}

func TestCanvas_TextTruncatesAndKeepsWidth(t *testing.T) {
	cv := newCanvas(10, 2)
	cv.text(0, 0, 6, "overflowing", paintLabel)
	cv.text(0, 1, 4, "日本語", paintLabel)

	rows := strings.Split(cv.plain(), "\n")
	if rows[0] != "overf…" {
		t.Fatalf("row 0 = %q, want %q", rows[0], "overf…")
	}
	if rows[1] != "日本" && rows[1] != "日…" {
		t.Fatalf("row 1 = %q, want wide runes kept inside 4 columns", rows[1])
	}
	if len(cv.runes[1]) != 10 {
		t.Fatalf("row width changed to %d", len(cv.runes[1]))
	}
}

func TestDrawGrid_MarksFocusAndStatus(t *testing.T) {
	g := lines([]float64{1, 1})
	e := editor.New(g, editor.Options{})
	t.Cleanup(e.Close)
	e.Select(grid.Cell{Line: 0, Frame: 1})

	geo := computeGeometry(g, editor.Vertical, 4, nil)
	cv := newCanvas(20, geo.height)
	drawGrid(cv, geo, e, mouse.Point{}, nil)

	text := cv.plain()
	if !strings.Contains(text, "L0") || !strings.Contains(text, "#1") || !strings.Contains(text, "1b") {
		t.Fatalf("canvas = %q, want label, frame name and duration", text)
	}
	focus, _ := geo.box(grid.Cell{Line: 0, Frame: 1})
	if p := cv.paints[focus.rect.Y][focus.rect.X]; p != paintFocus {
		t.Fatalf("focus paint = %d, want %d", p, paintFocus)
	}
	other, _ := geo.box(grid.Cell{Line: 0, Frame: 0})
	if p := cv.paints[other.rect.Y][other.rect.X]; p != paintFrame {
		t.Fatalf("frame paint = %d, want %d", p, paintFrame)
	}
}
