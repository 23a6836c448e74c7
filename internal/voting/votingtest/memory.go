// Package votingtest provides an in-memory voting.Store for tests.
package votingtest

import (
	"context"
	"sync"

	"github.com/emilythestrangee/askseniors/backend/internal/voting"
)

type key struct {
	userID   int
	targetID int
}

type state struct {
	votes    map[key]voting.Record
	counters map[int]voting.Counters
	nextID   int
}

func (s state) clone() state {
	c := state{
		votes:    make(map[key]voting.Record, len(s.votes)),
		counters: make(map[int]voting.Counters, len(s.counters)),
		nextID:   s.nextID,
	}
	for k, v := range s.votes {
		c.votes[k] = v
	}
	for k, v := range s.counters {
		c.counters[k] = v
	}
	return c
}

// Store serialises transactions behind one mutex and commits a working
// copy of its state only when fn succeeds.
type Store struct {
	mu        sync.Mutex
	committed state
	races     map[key]voting.Kind
	creates   int
}

func NewStore() *Store {
	return &Store{
		committed: state{
			votes:    make(map[key]voting.Record),
			counters: make(map[int]voting.Counters),
		},
		races: make(map[key]voting.Kind),
	}
}

// AddTarget registers a target with initial counters.
func (s *Store) AddTarget(targetID int, c voting.Counters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed.counters[targetID] = c
}

// Counters returns the committed counters of targetID.
func (s *Store) Counters(targetID int) voting.Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.counters[targetID]
}

// Vote returns the committed record of userID on targetID, if any.
func (s *Store) Vote(userID, targetID int) (voting.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.committed.votes[key{userID, targetID}]
	return rec, ok
}

// CountVotes returns the number of committed records on targetID with kind.
func (s *Store) CountVotes(targetID int, kind voting.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, rec := range s.committed.votes {
		if k.targetID == targetID && rec.Kind == kind {
			n++
		}
	}
	return n
}

// Creates returns how many CreateVote calls reached the store.
func (s *Store) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates
}

// SimulateRace makes the next CreateVote for (userID, targetID) lose against
// a concurrent request that committed kind first, counters included.
func (s *Store) SimulateRace(userID, targetID int, kind voting.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.races[key{userID, targetID}] = kind
}

func (s *Store) Transact(ctx context.Context, fn func(voting.Ledger, voting.Targets) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.committed.clone()
	t := &tx{store: s, st: &working}
	if err := fn(t, t); err != nil {
		return err
	}
	s.committed = working
	return nil
}

type tx struct {
	store *Store
	st    *state
}

func (t *tx) FindVote(_ context.Context, userID, targetID int) (*voting.Record, error) {
	rec, ok := t.st.votes[key{userID, targetID}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (t *tx) CreateVote(_ context.Context, userID, targetID int, kind voting.Kind) (*voting.Record, error) {
	t.store.creates++
	k := key{userID, targetID}

	if raced, ok := t.store.races[k]; ok {
		delete(t.store.races, k)
		committed := &t.store.committed
		committed.nextID++
		committed.votes[k] = voting.Record{ID: committed.nextID, UserID: userID, TargetID: targetID, Kind: raced}
		committed.counters[targetID] = voting.Aggregate(committed.counters[targetID], voting.Delta{Kind: raced, N: 1})
		return nil, voting.ErrDuplicateVote
	}

	if _, exists := t.st.votes[k]; exists {
		return nil, voting.ErrDuplicateVote
	}
	t.st.nextID++
	rec := voting.Record{ID: t.st.nextID, UserID: userID, TargetID: targetID, Kind: kind}
	t.st.votes[k] = rec
	return &rec, nil
}

func (t *tx) UpdateVoteKind(_ context.Context, rec *voting.Record, kind voting.Kind) error {
	k := key{rec.UserID, rec.TargetID}
	stored, ok := t.st.votes[k]
	if !ok || stored.ID != rec.ID {
		return nil
	}
	stored.Kind = kind
	t.st.votes[k] = stored
	rec.Kind = kind
	return nil
}

func (t *tx) DeleteVote(_ context.Context, rec *voting.Record) error {
	k := key{rec.UserID, rec.TargetID}
	if stored, ok := t.st.votes[k]; ok && stored.ID == rec.ID {
		delete(t.st.votes, k)
	}
	return nil
}

func (t *tx) LoadCounters(_ context.Context, targetID int) (voting.Counters, error) {
	c, ok := t.st.counters[targetID]
	if !ok {
		return voting.Counters{}, voting.ErrTargetNotFound
	}
	return c, nil
}

func (t *tx) SaveCounters(_ context.Context, targetID int, c voting.Counters) error {
	t.st.counters[targetID] = c
	return nil
}
