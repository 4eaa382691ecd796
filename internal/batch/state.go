package batch

import (
	"sync"

	"github.com/fpang/ai-commerce-copy/internal/csvio"
)

// OperationStore retains the completed chunks of in-flight batch runs,
// keyed by operation id, so that a run which dies partway through still
// leaves its finished work recoverable. Entries for successful runs are
// cleared by the runner; failed runs keep theirs until the caller clears
// them explicitly.
type OperationStore struct {
	mu  sync.Mutex
	ops map[string][]ChunkResult
}

// NewOperationStore returns an empty store.
func NewOperationStore() *OperationStore {
	return &OperationStore{ops: make(map[string][]ChunkResult)}
}

// Begin registers a fresh operation with no completed chunks.
func (s *OperationStore) Begin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops[id] = nil
}

// Append records a completed chunk for the given operation.
func (s *OperationStore) Append(id string, cr ChunkResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops[id] = append(s.ops[id], cr)
}

// Chunks returns the completed chunks of an operation in completion order.
// The second return is false for an unknown operation id.
func (s *OperationStore) Chunks(id string) ([]ChunkResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks, ok := s.ops[id]
	return chunks, ok
}

// RecoverPartialResults merges whatever chunks completed for the given
// operation into a dataset. It returns false when the operation is unknown
// or finished without leaving any chunks behind.
func (s *OperationStore) RecoverPartialResults(id string) (*csvio.Dataset, bool) {
	chunks, ok := s.Chunks(id)
	if !ok || len(chunks) == 0 {
		return nil, false
	}
	return MergeChunks(chunks), true
}

// Clear drops all state for an operation.
func (s *OperationStore) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ops, id)
}
