// Package ledger keeps auxiliary per-cell values attached to the right frame
// while the authority inserts and removes frames and lines.
package ledger

import (
	"fmt"
	"sort"

	"github.com/five82/framegrid/internal/grid"
)

// Ledger maps positional cells to values of type V. The zero value is ready
// to use. A Ledger is not safe for concurrent use.
type Ledger[V any] struct {
	entries map[grid.Cell]V
}

// Entry is one cell/value pair.
type Entry[V any] struct {
	Cell  grid.Cell
	Value V
}

// Set stores v at c.
func (l *Ledger[V]) Set(c grid.Cell, v V) {
	if l.entries == nil {
		l.entries = make(map[grid.Cell]V)
	}
	l.entries[c] = v
}

// Get returns the value at c.
func (l *Ledger[V]) Get(c grid.Cell) (V, bool) {
	v, ok := l.entries[c]
	return v, ok
}

// Delete removes the value at c.
func (l *Ledger[V]) Delete(c grid.Cell) {
	delete(l.entries, c)
}

// Len returns the number of entries.
func (l *Ledger[V]) Len() int {
	return len(l.entries)
}

// Clear drops every entry.
func (l *Ledger[V]) Clear() {
	l.entries = nil
}

// Entries returns the entries in row-major order.
func (l *Ledger[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, len(l.entries))
	for c, v := range l.entries {
		out = append(out, Entry[V]{Cell: c, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cell.Less(out[j].Cell) })
	return out
}

// Apply remaps every entry for one structural event. Entries on a removed
// frame or line are dropped; entries after an insertion or removal point
// move by one. The new map is built in a single pass from the old one, so
// no entry is shifted twice. If two surviving entries would land on the
// same cell the ledger is left unchanged and an error is returned.
func (l *Ledger[V]) Apply(ev grid.Event) error {
	if len(l.entries) == 0 {
		return nil
	}
	next := make(map[grid.Cell]V, len(l.entries))
	for c, v := range l.entries {
		moved, keep := remap(ev, c)
		if !keep {
			continue
		}
		if _, dup := next[moved]; dup {
			return fmt.Errorf("apply %s at %v: two entries map to %v", ev.Kind, grid.Cell{Line: ev.Line, Frame: ev.Frame}, moved)
		}
		next[moved] = v
	}
	l.entries = next
	return nil
}

func remap(ev grid.Event, c grid.Cell) (grid.Cell, bool) {
	switch ev.Kind {
	case grid.FrameRemoved:
		if c.Line != ev.Line || c.IsLineScoped() {
			return c, true
		}
		switch {
		case c.Frame == ev.Frame:
			return c, false
		case c.Frame > ev.Frame:
			c.Frame--
		}
	case grid.FrameInserted:
		if c.Line == ev.Line && !c.IsLineScoped() && c.Frame >= ev.Frame {
			c.Frame++
		}
	case grid.LineRemoved:
		switch {
		case c.Line == ev.Line:
			return c, false
		case c.Line > ev.Line:
			c.Line--
		}
	case grid.LineInserted:
		if c.Line >= ev.Line {
			c.Line++
		}
	}
	return c, true
}
