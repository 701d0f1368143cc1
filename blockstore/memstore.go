package blockstore

import (
	"context"
	"sync"

	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/verr"
)

// MemStore is an in-memory Store, used by tests and by single-process
// deployments that don't need durability.
type MemStore struct {
	mu   sync.RWMutex
	data map[objid.Hash][]byte
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[objid.Hash][]byte)}
}

func (s *MemStore) Put(ctx context.Context, hash objid.Hash, data []byte) error {
	if err := ctx.Err(); err != nil {
		return verr.New(verr.Aborted, err, 1, "blockstore: put canceled")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[hash]; ok {
		// Content-addressed: identical hash implies identical bytes, so a
		// second Put is a safe no-op rather than an overwrite.
		return nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.data[hash] = cp
	return nil
}

func (s *MemStore) Get(ctx context.Context, hash objid.Hash) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, verr.New(verr.Aborted, err, 1, "blockstore: get canceled")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[hash]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}
