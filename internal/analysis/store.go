package analysis

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Store is a thread-safe in-memory analysis registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	analyses map[string]*Analysis
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		analyses: make(map[string]*Analysis),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Put(a *Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[a.ID] = a
}

func (s *Store) Get(id string) *Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyses[id]
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.analyses[id]
	delete(s.analyses, id)
	return ok
}

// List returns every analysis, oldest first.
func (s *Store) List() []*Analysis {
	s.mu.Lock()
	out := make([]*Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		out = append(out, a)
	}
	s.mu.Unlock()
	slices.SortFunc(out, func(x, y *Analysis) int {
		if c := x.createdAt.Compare(y.createdAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return out
}

// Cleanup removes analyses idle longer than the TTL and returns how many
// were evicted. Analyses still queued or in flight are kept.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, a := range s.analyses {
		switch a.Status() {
		case StatusQueued, StatusTokenizing, StatusLookingUp, StatusResolving:
			continue
		}
		if now.Sub(a.lastUpdate()) > s.ttl {
			delete(s.analyses, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.analyses)
}
