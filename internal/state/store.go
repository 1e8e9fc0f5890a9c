package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/five82/framegrid/internal/authority"
	"github.com/five82/framegrid/internal/grid"
)

// ErrClosed is returned by Subscription.Next after Close.
var ErrClosed = errors.New("subscription closed")

// Snapshot represents the latest mirror data available to the UI.
type Snapshot struct {
	Grid                grid.Grid
	HasGrid             bool
	Version             uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the authority has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Change is one published mirror update. Events are in authority order and
// describe the shape transitions that led to Grid.
type Change struct {
	Version  uint64
	Grid     grid.Grid
	Events   []grid.Event
	Statuses []grid.StatusReport
}

// Store coordinates concurrent updates to the mirror.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	gridHash uint64
	subs     map[*Subscription]struct{}
}

// Update applies a poll result. When err is non-nil the previous data is
// kept but the error is recorded for visibility. Subscribers receive a
// Change only when the grid content differs or the update carries events or
// statuses.
func (s *Store) Update(u *authority.Update, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
	if u == nil {
		return
	}

	changed := false
	if u.Grid != nil {
		sum, ok := hashGrid(*u.Grid)
		if !ok || !s.snapshot.HasGrid || sum != s.gridHash {
			s.snapshot.Grid = u.Grid.Clone()
			s.snapshot.HasGrid = true
			s.gridHash = sum
			changed = true
		}
	}
	if u.Version > s.snapshot.Version {
		s.snapshot.Version = u.Version
	}
	if !changed && len(u.Events) == 0 && len(u.Statuses) == 0 {
		return
	}

	for sub := range s.subs {
		sub.push(Change{
			Version:  s.snapshot.Version,
			Grid:     s.snapshot.Grid.Clone(),
			Events:   cloneSlice(u.Events),
			Statuses: cloneSlice(u.Statuses),
		})
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Grid = s.snapshot.Grid.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Subscribe registers a new subscriber. Every Change published after this
// call is delivered to it in order.
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub := &Subscription{store: s, notify: make(chan struct{}, 1)}
	if s.subs == nil {
		s.subs = make(map[*Subscription]struct{})
	}
	s.subs[sub] = struct{}{}
	return sub
}

func (s *Store) unsubscribe(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, sub)
}

// Subscription is an ordered, unbounded queue of mirror changes. Changes
// are never dropped; a slow reader receives them batched.
type Subscription struct {
	store   *Store
	mu      sync.Mutex
	pending []Change
	closed  bool
	notify  chan struct{}
}

func (sub *Subscription) push(c Change) {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.pending = append(sub.pending, c)
	sub.mu.Unlock()
	sub.signal()
}

func (sub *Subscription) signal() {
	select {
	case sub.notify <- struct{}{}:
	default:
	}
}

// Next blocks until at least one change is pending and returns all of them.
func (sub *Subscription) Next(ctx context.Context) ([]Change, error) {
	for {
		sub.mu.Lock()
		if len(sub.pending) > 0 {
			out := sub.pending
			sub.pending = nil
			sub.mu.Unlock()
			return out, nil
		}
		closed := sub.closed
		sub.mu.Unlock()
		if closed {
			return nil, ErrClosed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-sub.notify:
		}
	}
}

// Close detaches the subscription. Pending changes are discarded.
func (sub *Subscription) Close() {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.closed = true
	sub.pending = nil
	sub.mu.Unlock()
	sub.store.unsubscribe(sub)
	sub.signal()
}

func hashGrid(g grid.Grid) (uint64, bool) {
	data, err := json.Marshal(g)
	if err != nil {
		return 0, false
	}
	return xxhash.Sum64(data), true
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
