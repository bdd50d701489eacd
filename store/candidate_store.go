package store

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// CandidateStore holds the current candidate snapshot of one collection.
// A snapshot is never mutated after it is stored; Replace swaps in a new one,
// so a match call that already holds a snapshot is unaffected.
type CandidateStore struct {
	mu         sync.RWMutex
	candidates []model.Candidate
	version    uint64
	updatedAt  time.Time
}

// NewCandidateStore creates an empty store.
func NewCandidateStore() *CandidateStore {
	return &CandidateStore{
		candidates: []model.Candidate{},
		updatedAt:  time.Now(),
	}
}

// Replace stores a new snapshot and returns its version.
func (cs *CandidateStore) Replace(candidates []model.Candidate) uint64 {
	snapshot := make([]model.Candidate, len(candidates))
	copy(snapshot, candidates)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.candidates = snapshot
	cs.version++
	cs.updatedAt = time.Now()
	return cs.version
}

// Snapshot returns the current candidates. The slice must be treated as read-only.
func (cs *CandidateStore) Snapshot() []model.Candidate {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.candidates
}

// Len returns the number of candidates in the current snapshot.
func (cs *CandidateStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.candidates)
}

// Version returns the number of times the snapshot was replaced.
func (cs *CandidateStore) Version() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.version
}

// UpdatedAt returns when the snapshot was last replaced.
func (cs *CandidateStore) UpdatedAt() time.Time {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.updatedAt
}
