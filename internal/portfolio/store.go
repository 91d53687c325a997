package portfolio

import (
	"errors"
	"fmt"
	"sync"

	"archfolio/internal/logging"
)

// ErrVersionConflict is returned by CommitIf when the document changed after the
// caller took its snapshot.
var ErrVersionConflict = errors.New("document changed since snapshot")

// Change describes a committed replacement.
type Change struct {
	Version uint64
	Source  string // "edit", "assistant", "watch", "import"
}

// Store holds the current document. Every write replaces the whole record; readers
// get deep copies, so nothing outside the store can mutate the held value.
type Store struct {
	mu      sync.RWMutex
	doc     Portfolio
	version uint64

	subMu sync.Mutex
	subs  map[int]chan Change
	next  int
}

// NewStore creates a store holding a copy of initial.
func NewStore(initial Portfolio) *Store {
	return &Store{
		doc:  initial.Clone(),
		subs: make(map[int]chan Change),
	}
}

// Snapshot returns a copy of the current document and its version.
func (s *Store) Snapshot() (Portfolio, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone(), s.version
}

// Current returns a copy of the current document.
func (s *Store) Current() Portfolio {
	doc, _ := s.Snapshot()
	return doc
}

// Version returns the current version. It increases by one on every commit.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Apply runs fn against the current document and commits its result. If fn returns
// an error the document is left unchanged.
func (s *Store) Apply(source string, fn func(Portfolio) (Portfolio, error)) (Portfolio, error) {
	s.mu.Lock()
	next, err := fn(s.doc.Clone())
	if err != nil {
		s.mu.Unlock()
		return Portfolio{}, err
	}
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return Portfolio{}, fmt.Errorf("rejected %s edit: %w", source, err)
	}
	change := s.commitLocked(next, source)
	out := s.doc.Clone()
	s.mu.Unlock()

	s.publish(change)
	return out, nil
}

// Replace commits doc unconditionally.
func (s *Store) Replace(source string, doc Portfolio) error {
	_, err := s.Apply(source, func(Portfolio) (Portfolio, error) { return doc, nil })
	return err
}

// CommitIf commits doc only when the store is still at version. It is how an update
// computed from an older snapshot avoids overwriting edits made in the meantime.
func (s *Store) CommitIf(source string, version uint64, doc Portfolio) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("rejected %s commit: %w", source, err)
	}

	s.mu.Lock()
	if s.version != version {
		current := s.version
		s.mu.Unlock()
		return fmt.Errorf("%w (snapshot v%d, current v%d)", ErrVersionConflict, version, current)
	}
	change := s.commitLocked(doc, source)
	s.mu.Unlock()

	s.publish(change)
	return nil
}

func (s *Store) commitLocked(doc Portfolio, source string) Change {
	s.doc = doc.Clone()
	s.version++
	logging.StoreDebug("commit v%d from %s (%d projects, %d resources)",
		s.version, source, len(doc.Projects), len(doc.Resources))
	return Change{Version: s.version, Source: source}
}

// Subscribe returns a channel that receives every committed change and a function
// that unsubscribes. Slow subscribers miss intermediate changes rather than block
// writers; the latest document is always available through Snapshot.
func (s *Store) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 8)

	s.subMu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publish(change Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}
