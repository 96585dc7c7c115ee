package screen

import (
	"context"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/kataster/internal/models"
)

// Lookuper performs one classified parcel lookup.
type Lookuper interface {
	Lookup(ctx context.Context, identifier string) models.LookupResult
}

// PolygonListener is called once for every accepted successful polygon update.
type PolygonListener func(ctx context.Context, polygon models.Polygon)

// ClearedListener is called once whenever a displayed polygon is removed.
type ClearedListener func(ctx context.Context)

// Store owns the screen state. Dispatch is the only way the state changes.
type Store struct {
	mu        sync.Mutex
	state     State
	nextSeq   uint64
	lookuper  Lookuper
	listeners []PolygonListener
	cleared   []ClearedListener
	log       *slog.Logger
}

// NewStore creates an idle store running lookups through lookuper.
func NewStore(lookuper Lookuper, log *slog.Logger) *Store {
	return &Store{lookuper: lookuper, log: log}
}

// OnPolygon registers a listener for polygon updates.
func (s *Store) OnPolygon(listener PolygonListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// OnCleared registers a listener for the removal of the displayed polygon.
// A new search removes it before the lookup starts.
func (s *Store) OnCleared(listener ClearedListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, listener)
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies ev and notifies polygon listeners when it produced a new polygon.
func (s *Store) Dispatch(ctx context.Context, ev Event) State {
	return s.update(ctx, func() Event { return ev })
}

// update builds the event under the lock so sequence numbers and state advance together.
// Listeners run after the lock is released.
func (s *Store) update(ctx context.Context, next func() Event) State {
	s.mu.Lock()
	ev := next()
	before := s.state
	s.state = Reduce(s.state, ev)
	after := s.state
	listeners := append([]PolygonListener(nil), s.listeners...)
	cleared := append([]ClearedListener(nil), s.cleared...)
	s.mu.Unlock()

	if before.Phase != after.Phase {
		s.log.DebugContext(ctx, "Screen state changed", "from", before.Phase, "to", after.Phase, "seq", after.Seq)
	}
	if ev, ok := ev.(LookupFinished); ok && ev.Seq != after.Seq {
		s.log.InfoContext(ctx, "Dropped result of a superseded search", "seq", ev.Seq, "current", after.Seq)
	}

	if after.Revision != before.Revision {
		if after.Polygon.Empty() {
			for _, listener := range cleared {
				listener(ctx)
			}
		} else {
			for _, listener := range listeners {
				listener(ctx, after.Polygon)
			}
		}
	}

	return after
}

// Begin starts a new search for identifier and returns its sequence number.
func (s *Store) Begin(ctx context.Context, identifier string) uint64 {
	var seq uint64
	s.update(ctx, func() Event {
		s.nextSeq++
		seq = s.nextSeq
		return SearchStarted{Identifier: identifier, Seq: seq}
	})

	return seq
}

// Finish delivers the result of search seq.
func (s *Store) Finish(ctx context.Context, seq uint64, result models.LookupResult) State {
	return s.Dispatch(ctx, LookupFinished{Seq: seq, Result: result})
}

// Search runs a complete search cycle synchronously: Loading, one lookup, result.
func (s *Store) Search(ctx context.Context, identifier string) State {
	seq := s.Begin(ctx, identifier)
	result := s.lookuper.Lookup(ctx, identifier)
	return s.Finish(ctx, seq, result)
}
