// Package timing defines the scheduling directive attached to every
// mutation sent to the authority.
package timing

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind selects when the authority applies a mutation relative to playback.
type Kind int

const (
	KindImmediate Kind = iota
	KindEndOfLine
	KindAtBeat
	KindAtNextBeat
	KindAtNextPhase
)

var kindNames = map[Kind]string{
	KindImmediate:   "immediate",
	KindEndOfLine:   "end_of_line",
	KindAtBeat:      "at_beat",
	KindAtNextBeat:  "next_beat",
	KindAtNextPhase: "next_phase",
}

// Directive is a tagged scheduling value. Line is meaningful for
// KindEndOfLine, Beat for KindAtBeat.
type Directive struct {
	Kind Kind
	Line int
	Beat float64
}

// Immediate applies the mutation as soon as it arrives.
func Immediate() Directive { return Directive{Kind: KindImmediate} }

// EndOfLine defers the mutation until line finishes its current pass.
func EndOfLine(line int) Directive { return Directive{Kind: KindEndOfLine, Line: line} }

// AtBeat applies the mutation at an absolute transport beat.
func AtBeat(beat float64) Directive { return Directive{Kind: KindAtBeat, Beat: beat} }

func AtNextBeat() Directive { return Directive{Kind: KindAtNextBeat} }

func AtNextPhase() Directive { return Directive{Kind: KindAtNextPhase} }

func (d Directive) String() string {
	switch d.Kind {
	case KindImmediate:
		return "immediate"
	case KindEndOfLine:
		return fmt.Sprintf("end-of-line(%d)", d.Line)
	case KindAtBeat:
		return "at-beat(" + strconv.FormatFloat(d.Beat, 'f', -1, 64) + ")"
	case KindAtNextBeat:
		return "next-beat"
	case KindAtNextPhase:
		return "next-phase"
	}
	return fmt.Sprintf("timing(%d)", int(d.Kind))
}

// Next cycles the directives a user can pick for structural edits.
func (d Directive) Next() Directive {
	switch d.Kind {
	case KindImmediate:
		return AtNextBeat()
	case KindAtNextBeat:
		return AtNextPhase()
	default:
		return Immediate()
	}
}

type wireDirective struct {
	Kind string   `json:"kind"`
	Line *int     `json:"line,omitempty"`
	Beat *float64 `json:"beat,omitempty"`
}

// MarshalJSON encodes d as {"kind": ..., "line"|"beat": ...}.
func (d Directive) MarshalJSON() ([]byte, error) {
	name, ok := kindNames[d.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown timing kind %d", int(d.Kind))
	}
	w := wireDirective{Kind: name}
	switch d.Kind {
	case KindEndOfLine:
		line := d.Line
		w.Line = &line
	case KindAtBeat:
		beat := d.Beat
		w.Beat = &beat
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (d *Directive) UnmarshalJSON(data []byte) error {
	var w wireDirective
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	for kind, name := range kindNames {
		if name != w.Kind {
			continue
		}
		out := Directive{Kind: kind}
		if kind == KindEndOfLine {
			if w.Line == nil {
				return fmt.Errorf("timing %s missing line", name)
			}
			out.Line = *w.Line
		}
		if kind == KindAtBeat {
			if w.Beat == nil {
				return fmt.Errorf("timing %s missing beat", name)
			}
			out.Beat = *w.Beat
		}
		*d = out
		return nil
	}
	return fmt.Errorf("unknown timing kind %q", w.Kind)
}
