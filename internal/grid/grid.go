// Package grid holds the mirrored sequencer data: lines of frames, the
// positional cell addresses that point into them, and the structural events
// the authority emits when the shape changes.
package grid

// LineFrame is the frame index used by line-scoped cells.
const LineFrame = -1

// DefaultDuration is the length in beats of a blank frame.
const DefaultDuration = 1.0

// Script is the program carried by a frame.
type Script struct {
	Content string            `json:"content"`
	Lang    string            `json:"lang"`
	Args    map[string]string `json:"args,omitempty"`
}

// Frame is one step of a line.
type Frame struct {
	Duration    float64           `json:"duration"`
	Repetitions int               `json:"repetitions"`
	Enabled     bool              `json:"enabled"`
	Script      Script            `json:"script"`
	Name        *string           `json:"name,omitempty"`
	Vars        map[string]string `json:"vars,omitempty"`
}

// NewFrame returns a blank, enabled frame of one beat.
func NewFrame(lang string) Frame {
	return Frame{
		Duration:    DefaultDuration,
		Repetitions: 1,
		Enabled:     true,
		Script:      Script{Lang: lang},
	}
}

// Clone returns a deep copy of f.
func (f Frame) Clone() Frame {
	dup := f
	if f.Name != nil {
		name := *f.Name
		dup.Name = &name
	}
	dup.Vars = cloneMap(f.Vars)
	dup.Script.Args = cloneMap(f.Script.Args)
	return dup
}

// DisplayName returns the frame name or an empty string.
func (f Frame) DisplayName() string {
	if f.Name == nil {
		return ""
	}
	return *f.Name
}

// Reps returns the repetition count, treating invalid values as one.
func (f Frame) Reps() int {
	if f.Repetitions < 1 {
		return 1
	}
	return f.Repetitions
}

// Line is an ordered sequence of frames played as one track.
type Line struct {
	Frames       []Frame           `json:"frames"`
	SpeedFactor  float64           `json:"speed_factor"`
	Vars         map[string]string `json:"vars,omitempty"`
	StartFrame   *int              `json:"start_frame,omitempty"`
	EndFrame     *int              `json:"end_frame,omitempty"`
	CustomLength *float64          `json:"custom_length,omitempty"`
}

// Clone returns a deep copy of l.
func (l Line) Clone() Line {
	dup := l
	if l.Frames != nil {
		dup.Frames = make([]Frame, len(l.Frames))
		for i, f := range l.Frames {
			dup.Frames[i] = f.Clone()
		}
	}
	dup.Vars = cloneMap(l.Vars)
	dup.StartFrame = cloneInt(l.StartFrame)
	dup.EndFrame = cloneInt(l.EndFrame)
	if l.CustomLength != nil {
		v := *l.CustomLength
		dup.CustomLength = &v
	}
	return dup
}

// Grid is the full set of lines.
type Grid struct {
	Lines []Line `json:"lines"`
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	if g.Lines == nil {
		return Grid{}
	}
	dup := Grid{Lines: make([]Line, len(g.Lines))}
	for i, l := range g.Lines {
		dup.Lines[i] = l.Clone()
	}
	return dup
}

// LineCount returns the number of lines.
func (g Grid) LineCount() int {
	return len(g.Lines)
}

// FrameCount returns the number of frames on line, or zero when the line
// does not exist.
func (g Grid) FrameCount(line int) int {
	if line < 0 || line >= len(g.Lines) {
		return 0
	}
	return len(g.Lines[line].Frames)
}

// Empty reports whether no line holds a frame.
func (g Grid) Empty() bool {
	for _, l := range g.Lines {
		if len(l.Frames) > 0 {
			return false
		}
	}
	return true
}

// Has reports whether c addresses an existing frame.
func (g Grid) Has(c Cell) bool {
	return c.Line >= 0 && c.Frame >= 0 && c.Frame < g.FrameCount(c.Line)
}

// Frame returns the frame at c.
func (g Grid) Frame(c Cell) (Frame, bool) {
	if !g.Has(c) {
		return Frame{}, false
	}
	return g.Lines[c.Line].Frames[c.Frame], true
}

// Line returns the line at index.
func (g Grid) Line(index int) (Line, bool) {
	if index < 0 || index >= len(g.Lines) {
		return Line{}, false
	}
	return g.Lines[index], true
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	dup := make(map[string]string, len(m))
	for k, v := range m {
		dup[k] = v
	}
	return dup
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
