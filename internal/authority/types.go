package authority

import (
	"github.com/five82/framegrid/internal/commit"
	"github.com/five82/framegrid/internal/grid"
	"github.com/five82/framegrid/internal/timing"
)

// Update mirrors the payload returned by /api/grid. Grid is nil when the
// authority has no newer grid than the requested version.
type Update struct {
	Version  uint64              `json:"version"`
	Grid     *grid.Grid          `json:"grid"`
	Events   []grid.Event        `json:"events"`
	Statuses []grid.StatusReport `json:"statuses"`
}

type setFramesBody struct {
	Timing timing.Directive   `json:"timing"`
	Frames []commit.FrameEdit `json:"frames"`
}

type addFrameBody struct {
	Timing timing.Directive `json:"timing"`
	Line   int              `json:"line"`
	Index  int              `json:"index"`
	Frame  grid.Frame       `json:"frame"`
}

type removeFrameBody struct {
	Timing timing.Directive `json:"timing"`
	Line   int              `json:"line"`
	Index  int              `json:"index"`
}

type setLinesBody struct {
	Timing timing.Directive  `json:"timing"`
	Lines  []commit.LineEdit `json:"lines"`
}
