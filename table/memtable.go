package table

import (
	"context"
	"sync"

	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/verr"
	"github.com/wharfstore/core/wireenc"
)

// objectKey is the composite primary key of an Object entry.
type objectKey struct{ bucket, key string }

// blockRefKey is the composite primary key of a BlockRef entry.
type blockRefKey struct {
	hash objid.Hash
	uuid objid.UUID
}

// MemObjectTable is an in-memory ObjectTable. Every Insert/Get round-trips
// the entry through wireenc, so a corrupt encoding (which can never actually
// happen here, since nothing but this type writes to the map) would surface
// the same verr.Encoding a real replicated-table client sees, rather than a
// panic.
type MemObjectTable struct {
	mu   sync.RWMutex
	data map[objectKey][]byte
}

// NewMemObjectTable returns an empty in-memory ObjectTable.
func NewMemObjectTable() *MemObjectTable {
	return &MemObjectTable{data: make(map[objectKey][]byte)}
}

func (t *MemObjectTable) Insert(ctx context.Context, obj model.Object) (model.Object, error) {
	if err := ctx.Err(); err != nil {
		return model.Object{}, verr.New(verr.Aborted, err, 1, "table: insert canceled")
	}
	key := objectKey{obj.Bucket, obj.Key}

	t.mu.Lock()
	defer t.mu.Unlock()

	merged := obj
	if raw, ok := t.data[key]; ok {
		var existing model.Object
		if err := wireenc.Decode(raw, &existing); err != nil {
			return model.Object{}, err
		}
		merged = model.MergeObject(existing, obj)
	}
	encoded, err := wireenc.Encode(merged)
	if err != nil {
		return model.Object{}, err
	}
	t.data[key] = encoded
	return merged, nil
}

func (t *MemObjectTable) Get(ctx context.Context, bucket, key string) (model.Object, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Object{}, false, verr.New(verr.Aborted, err, 1, "table: get canceled")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	raw, ok := t.data[objectKey{bucket, key}]
	if !ok {
		return model.Object{}, false, nil
	}
	var obj model.Object
	if err := wireenc.Decode(raw, &obj); err != nil {
		return model.Object{}, false, err
	}
	return obj, true, nil
}

// MemVersionTable is an in-memory VersionTable.
type MemVersionTable struct {
	mu   sync.RWMutex
	data map[objid.UUID][]byte
}

// NewMemVersionTable returns an empty in-memory VersionTable.
func NewMemVersionTable() *MemVersionTable {
	return &MemVersionTable{data: make(map[objid.UUID][]byte)}
}

func (t *MemVersionTable) Insert(ctx context.Context, v model.Version) (model.Version, error) {
	if err := ctx.Err(); err != nil {
		return model.Version{}, verr.New(verr.Aborted, err, 1, "table: insert canceled")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	merged := v
	if raw, ok := t.data[v.UUID]; ok {
		var existing model.Version
		if err := wireenc.Decode(raw, &existing); err != nil {
			return model.Version{}, err
		}
		merged = model.MergeVersion(existing, v)
	}
	encoded, err := wireenc.Encode(merged)
	if err != nil {
		return model.Version{}, err
	}
	t.data[v.UUID] = encoded
	return merged, nil
}

func (t *MemVersionTable) Get(ctx context.Context, uuid objid.UUID) (model.Version, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Version{}, false, verr.New(verr.Aborted, err, 1, "table: get canceled")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	raw, ok := t.data[uuid]
	if !ok {
		return model.Version{}, false, nil
	}
	var v model.Version
	if err := wireenc.Decode(raw, &v); err != nil {
		return model.Version{}, false, err
	}
	return v, true, nil
}

// MemBlockRefTable is an in-memory BlockRefTable.
type MemBlockRefTable struct {
	mu   sync.RWMutex
	data map[blockRefKey][]byte
}

// NewMemBlockRefTable returns an empty in-memory BlockRefTable.
func NewMemBlockRefTable() *MemBlockRefTable {
	return &MemBlockRefTable{data: make(map[blockRefKey][]byte)}
}

func (t *MemBlockRefTable) Insert(ctx context.Context, br model.BlockRef) (model.BlockRef, error) {
	if err := ctx.Err(); err != nil {
		return model.BlockRef{}, verr.New(verr.Aborted, err, 1, "table: insert canceled")
	}
	key := blockRefKey{br.Hash, br.VersionUUID}

	t.mu.Lock()
	defer t.mu.Unlock()

	merged := br
	if raw, ok := t.data[key]; ok {
		var existing model.BlockRef
		if err := wireenc.Decode(raw, &existing); err != nil {
			return model.BlockRef{}, err
		}
		merged = model.MergeBlockRef(existing, br)
	}
	encoded, err := wireenc.Encode(merged)
	if err != nil {
		return model.BlockRef{}, err
	}
	t.data[key] = encoded
	return merged, nil
}

func (t *MemBlockRefTable) Get(ctx context.Context, hash objid.Hash, versionUUID objid.UUID) (model.BlockRef, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.BlockRef{}, false, verr.New(verr.Aborted, err, 1, "table: get canceled")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	raw, ok := t.data[blockRefKey{hash, versionUUID}]
	if !ok {
		return model.BlockRef{}, false, nil
	}
	var br model.BlockRef
	if err := wireenc.Decode(raw, &br); err != nil {
		return model.BlockRef{}, false, err
	}
	return br, true, nil
}
