package almanac

import (
	"sync"
	"time"
)

// Snapshot is the published state of the latest load attempt. Either Doc is
// non-nil and Err is nil, or the other way round; a failed reload keeps the
// previous error, never a half-built document.
type Snapshot struct {
	Doc       *Document
	Err       error
	FromCache bool
	UpdatedAt time.Time
}

// Store holds the most recently built document. Refreshes swap the whole
// snapshot; readers always see either the previous complete state or the new
// one.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Set publishes a freshly built document.
func (s *Store) Set(doc *Document, fromCache bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{Doc: doc, FromCache: fromCache, UpdatedAt: time.Now()}
}

// SetError publishes a failed load attempt.
func (s *Store) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{Err: err, UpdatedAt: time.Now()}
}

// Snapshot returns the current published state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
