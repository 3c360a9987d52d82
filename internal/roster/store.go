// Package roster owns the player's saved team: the Store that enforces the
// team invariants and the Manager that the UI calls to change it.
package roster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/samdwyer/pokehub/internal/entity"
)

// MaxMembers is the largest team a roster can hold.
const MaxMembers = 6

var (
	// ErrRosterFull indicates the roster already holds MaxMembers members.
	ErrRosterFull = errors.New("roster is full")
	// ErrDuplicateSpecies indicates a member of the same species is already present.
	ErrDuplicateSpecies = errors.New("species already in roster")
	// ErrNotFound indicates no member has the requested species id.
	ErrNotFound = errors.New("roster member not found")
)

// Persister saves and restores the roster between runs.
type Persister interface {
	Load(ctx context.Context) ([]entity.Member, error)
	Save(ctx context.Context, members []entity.Member) error
}

// Listener is notified with a copy of the roster after every mutation.
type Listener func(members []entity.Member)

// Option configures a Store.
type Option func(*Store)

// WithPersister saves every mutation through p.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithLogger sets the store's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store holds at most MaxMembers members with unique species ids.
// All methods are safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	members   []entity.Member
	persister Persister
	logger    zerolog.Logger

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger:    zerolog.Nop(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and restores its members from the configured
// persister. Restored members that break the roster invariants are dropped.
func Open(ctx context.Context, opts ...Option) (*Store, error) {
	s := NewStore(opts...)
	if s.persister == nil {
		return s, nil
	}

	members, err := s.persister.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	seen := make(map[int]bool, len(members))
	for _, m := range members {
		if len(s.members) == MaxMembers || seen[m.SpeciesID] {
			s.logger.Warn().Int("species_id", m.SpeciesID).Msg("dropping restored roster member")
			continue
		}
		seen[m.SpeciesID] = true
		m.SetHP(m.CurrentHP)
		s.members = append(s.members, m.Clone())
	}
	s.logger.Debug().Int("members", len(s.members)).Msg("roster restored")
	return s, nil
}

// Add appends a member. It fails with ErrRosterFull or ErrDuplicateSpecies
// without changing the roster.
func (s *Store) Add(ctx context.Context, m entity.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if len(s.members) >= MaxMembers {
		s.mu.Unlock()
		return ErrRosterFull
	}
	if s.indexLocked(m.SpeciesID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrDuplicateSpecies, m.SpeciesID)
	}

	prev := s.members
	s.members = append(append([]entity.Member(nil), prev...), m.Clone())
	if err := s.saveLocked(ctx); err != nil {
		s.members = prev
		s.mu.Unlock()
		return err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("species_id", m.SpeciesID).Str("name", m.Name).Msg("roster member added")
	s.notify(snapshot)
	return nil
}

// Remove deletes the member with the given species id.
func (s *Store) Remove(ctx context.Context, speciesID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	idx := s.indexLocked(speciesID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrNotFound, speciesID)
	}

	prev := s.members
	next := make([]entity.Member, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	s.members = append(next, prev[idx+1:]...)
	if err := s.saveLocked(ctx); err != nil {
		s.members = prev
		s.mu.Unlock()
		return err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Info().Int("species_id", speciesID).Msg("roster member removed")
	s.notify(snapshot)
	return nil
}

// Clear removes every member.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.members
	s.members = nil
	if err := s.saveLocked(ctx); err != nil {
		s.members = prev
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.Info().Int("removed", len(prev)).Msg("roster cleared")
	s.notify(nil)
	return nil
}

// UpdateHP writes current HP back for the given species ids. Values are
// clamped to each member's max HP. Ids no longer in the roster are skipped.
func (s *Store) UpdateHP(ctx context.Context, hp map[int]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(hp) == 0 {
		return nil
	}

	s.mu.Lock()
	prev := s.members
	next := append([]entity.Member(nil), prev...)
	changed := false
	for i := range next {
		v, ok := hp[next[i].SpeciesID]
		if !ok || v == next[i].CurrentHP {
			continue
		}
		next[i].SetHP(v)
		changed = true
	}
	if !changed {
		s.mu.Unlock()
		return nil
	}
	s.members = next
	if err := s.saveLocked(ctx); err != nil {
		s.members = prev
		s.mu.Unlock()
		return err
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug().Int("members", len(hp)).Msg("roster HP written back")
	s.notify(snapshot)
	return nil
}

// List returns a copy of the roster in insertion order.
func (s *Store) List() []entity.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Get returns a copy of the member with the given species id.
func (s *Store) Get(speciesID int) (entity.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(speciesID)
	if idx < 0 {
		return entity.Member{}, false
	}
	return s.members[idx].Clone(), true
}

// Len returns the number of members.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.members)
}

// Subscribe registers l to be called after every mutation. The returned
// function removes the subscription.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.listenerMu.Lock()
		defer s.listenerMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(members []entity.Member) {
	s.listenerMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.listenerMu.Unlock()

	for _, l := range listeners {
		l(cloneMembers(members))
	}
}

func (s *Store) indexLocked(speciesID int) int {
	for i := range s.members {
		if s.members[i].SpeciesID == speciesID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() []entity.Member {
	return cloneMembers(s.members)
}

func (s *Store) saveLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

func cloneMembers(members []entity.Member) []entity.Member {
	out := make([]entity.Member, len(members))
	for i, m := range members {
		out[i] = m.Clone()
	}
	return out
}
