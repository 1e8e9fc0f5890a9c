package grid

import "fmt"

// Cell addresses a frame by position. Identities shift whenever a frame or
// line is inserted or removed before them.
type Cell struct {
	Line  int `json:"line"`
	Frame int `json:"frame"`
}

// LineCell returns the line-scoped cell for line.
func LineCell(line int) Cell {
	return Cell{Line: line, Frame: LineFrame}
}

// IsLineScoped reports whether c addresses a line rather than a frame.
func (c Cell) IsLineScoped() bool {
	return c.Frame == LineFrame
}

// Less orders cells row-major: by line, then frame.
func (c Cell) Less(o Cell) bool {
	if c.Line != o.Line {
		return c.Line < o.Line
	}
	return c.Frame < o.Frame
}

func (c Cell) String() string {
	if c.IsLineScoped() {
		return fmt.Sprintf("(%d,line)", c.Line)
	}
	return fmt.Sprintf("(%d,%d)", c.Line, c.Frame)
}
