package grid

import (
	"encoding/json"
	"fmt"
)

// EventKind identifies a structural change.
type EventKind int

const (
	FrameInserted EventKind = iota
	FrameRemoved
	LineInserted
	LineRemoved
)

var eventKindNames = map[EventKind]string{
	FrameInserted: "frame_inserted",
	FrameRemoved:  "frame_removed",
	LineInserted:  "line_inserted",
	LineRemoved:   "line_removed",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// MarshalJSON encodes the kind by name.
func (k EventKind) MarshalJSON() ([]byte, error) {
	name, ok := eventKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown event kind %d", int(k))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a kind name.
func (k *EventKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for kind, n := range eventKindNames {
		if n == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", name)
}

// Event is a structural-change notification. Frame is ignored for line
// events.
type Event struct {
	Kind  EventKind `json:"kind"`
	Line  int       `json:"line"`
	Frame int       `json:"frame,omitempty"`
}

// Shifts reports whether e moves or removes the identity of c.
func (e Event) Shifts(c Cell) bool {
	switch e.Kind {
	case FrameInserted:
		return c.Line == e.Line && !c.IsLineScoped() && c.Frame >= e.Frame
	case FrameRemoved:
		return c.Line == e.Line && !c.IsLineScoped() && c.Frame >= e.Frame
	case LineInserted:
		return c.Line >= e.Line
	case LineRemoved:
		return c.Line >= e.Line
	}
	return false
}

// CompileState is the outcome of compiling a frame script.
type CompileState int

const (
	CompilePending CompileState = iota
	Compiled
	CompileFailed
)

func (s CompileState) String() string {
	switch s {
	case Compiled:
		return "ok"
	case CompileFailed:
		return "error"
	default:
		return "pending"
	}
}

// CompileStatus is per-cell auxiliary state reported by the authority.
type CompileStatus struct {
	State   CompileState `json:"state"`
	Message string       `json:"message,omitempty"`
}

// StatusReport pairs a compile status with the cell it belongs to.
type StatusReport struct {
	Cell   Cell          `json:"cell"`
	Status CompileStatus `json:"status"`
}
