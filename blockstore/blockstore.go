// Package blockstore declares the content-addressed block RPC spec.md §1
// treats as an external collaborator (rpc_put_block), plus an in-memory and
// a file-backed reference implementation.
package blockstore

import (
	"context"

	"github.com/wharfstore/core/objid"
)

// Store is an idempotent, replicated content-addressed blob write: two
// Put calls for the same Hash are safe to race or retry, and both observe
// the same bytes (the write path never relies on Put returning "already
// existed" — content addressing makes overwrite a no-op by definition).
type Store interface {
	// Put durably writes data under Hash, returning nil if it already held
	// exactly those bytes.
	Put(ctx context.Context, hash objid.Hash, data []byte) error
	// Get returns the bytes previously Put under hash. ok is false if the
	// block has never been written (or was GC'd, out of scope here).
	Get(ctx context.Context, hash objid.Hash) (data []byte, ok bool, err error)
}
