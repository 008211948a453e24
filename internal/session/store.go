package session

import "sync"

// Store serializes access to the per-user session state. Do runs fn with
// the user's session while holding that user's lock, so at most one state
// transition is in flight per user at a time. Sessions are created lazily
// and dropped again once fn leaves them empty.
type Store interface {
	Do(userID int64, fn func(s *Session) error) error
}

// MemoryStore implements Store with an in-memory map guarded by a global
// mutex for map access and one mutex per user for transitions.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[int64]*entry),
	}
}

func (st *MemoryStore) entry(userID int64) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.entries[userID]
	if !ok {
		e = &entry{}
		st.entries[userID] = e
	}
	return e
}

func (st *MemoryStore) Do(userID int64, fn func(s *Session) error) error {
	e := st.entry(userID)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		e.sess = New(userID)
	}

	err := fn(e.sess)

	// A cleared session is indistinguishable from an absent one;
	// drop it so completed checkouts do not pin memory.
	if e.sess.IsEmpty() {
		e.sess = nil
	}

	return err
}

// Len reports how many users currently hold a live session.
func (st *MemoryStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for _, e := range st.entries {
		e.mu.Lock()
		if e.sess != nil {
			n++
		}
		e.mu.Unlock()
	}
	return n
}
