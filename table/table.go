// Package table declares the external, CRDT-replicated key/value store
// abstraction spec.md §1 treats as out of scope (object_table, version_table,
// block_ref_table), plus an in-memory reference implementation used by the
// rest of this module's tests. Insert offers eventual convergence via
// set-union/priority merge (package model's Merge* functions); Get offers
// read-your-writes on the node it is called against.
package table

import (
	"context"

	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
)

// ObjectTable is the replicated store backing model.Object, keyed by
// (bucket, key).
type ObjectTable interface {
	// Insert merges obj into whatever is already stored at (obj.Bucket,
	// obj.Key), per model.MergeObject, and returns the merged result.
	Insert(ctx context.Context, obj model.Object) (model.Object, error)
	// Get returns the current value at (bucket, key). ok is false if no
	// entry has ever been inserted there.
	Get(ctx context.Context, bucket, key string) (obj model.Object, ok bool, err error)
}

// VersionTable is the replicated store backing model.Version, keyed by uuid.
type VersionTable interface {
	Insert(ctx context.Context, v model.Version) (model.Version, error)
	Get(ctx context.Context, uuid objid.UUID) (v model.Version, ok bool, err error)
}

// BlockRefTable is the replicated store backing model.BlockRef, keyed by
// (hash, version_uuid).
type BlockRefTable interface {
	Insert(ctx context.Context, br model.BlockRef) (model.BlockRef, error)
	Get(ctx context.Context, hash objid.Hash, versionUUID objid.UUID) (br model.BlockRef, ok bool, err error)
}
