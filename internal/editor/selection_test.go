package editor

import (
	"reflect"
	"testing"

	"github.com/five82/framegrid/internal/grid"
)

func TestSelection_SelectExtendCollapse(t *testing.T) {
	g := makeGrid(3, 3)
	var s Selection

	s.Select(g, cell(0, 1))
	if got := s.Cells(g); !reflect.DeepEqual(got, []grid.Cell{cell(0, 1)}) {
		t.Fatalf("Cells = %v, want [(0,1)]", got)
	}

	s.Extend(g, cell(1, 2))
	want := []grid.Cell{cell(0, 1), cell(0, 2), cell(1, 1), cell(1, 2)}
	if got := s.Cells(g); !reflect.DeepEqual(got, want) {
		t.Fatalf("Cells = %v, want %v", got, want)
	}
	if a, _ := s.Anchor(g); a != cell(0, 1) {
		t.Fatalf("Anchor = %v, want (0,1)", a)
	}

	s.CollapseToFocus()
	if got := s.Cells(g); !reflect.DeepEqual(got, []grid.Cell{cell(1, 2)}) {
		t.Fatalf("Cells after collapse = %v, want [(1,2)]", got)
	}
}

func TestSelection_ExtendPastEndClamps(t *testing.T) {
	g := makeGrid(2, 4)
	var s Selection
	s.Select(g, cell(0, 0))
	s.Extend(g, cell(9, 99))

	f, ok := s.Focus(g)
	if !ok || f != cell(1, 3) {
		t.Fatalf("Focus = %v, %v; want (1,3)", f, ok)
	}
	for _, c := range s.Cells(g) {
		if !g.Has(c) {
			t.Fatalf("Cells returned out-of-range %v", c)
		}
	}
	if n := len(s.Cells(g)); n != 6 {
		t.Fatalf("len(Cells) = %d, want 6 (2 + 4, per-line clamped)", n)
	}
}

func TestSelection_LiveAgainstShrinkingGrid(t *testing.T) {
	var s Selection
	s.Select(makeGrid(3, 3), cell(1, 2))

	smaller := makeGrid(3, 1)
	f, ok := s.Focus(smaller)
	if !ok || f != cell(1, 0) {
		t.Fatalf("Focus on shrunk grid = %v, %v; want (1,0)", f, ok)
	}
	if got := s.Cells(smaller); !reflect.DeepEqual(got, []grid.Cell{cell(1, 0)}) {
		t.Fatalf("Cells on shrunk grid = %v, want [(1,0)]", got)
	}

	if got := s.Cells(makeGrid(0, 0)); got != nil {
		t.Fatalf("Cells on empty grid = %v, want nil", got)
	}
	if _, ok := s.Focus(grid.Grid{}); ok {
		t.Fatal("Focus on grid without lines should fail")
	}
}

func TestClampCell_SkipsEmptyLines(t *testing.T) {
	g := makeGrid(2, 0, 3)
	tests := []struct {
		in, want grid.Cell
	}{
		{cell(-4, -4), cell(0, 0)},
		{cell(1, 2), cell(0, 1)},
		{cell(7, 7), cell(2, 2)},
	}
	for _, tt := range tests {
		got, ok := clampCell(g, tt.in)
		if !ok || got != tt.want {
			t.Fatalf("clampCell(%v) = %v, %v; want %v", tt.in, got, ok, tt.want)
		}
	}
}

func TestSelection_Contains(t *testing.T) {
	g := makeGrid(3, 1)
	var s Selection
	s.Select(g, cell(0, 1))
	s.Extend(g, cell(1, 0))

	if !s.Contains(g, cell(0, 0)) || !s.Contains(g, cell(1, 0)) {
		t.Fatal("Contains missed a cell inside the span")
	}
	if s.Contains(g, cell(0, 2)) || s.Contains(g, cell(1, 1)) {
		t.Fatal("Contains matched a cell outside the span")
	}
}
