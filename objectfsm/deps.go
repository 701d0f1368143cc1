// Package objectfsm implements the ObjectVersion lifecycle: the simple-PUT
// three-phase commit protocol and the delete-marker path.
package objectfsm

import (
	"time"

	"github.com/wharfstore/core/blockstore"
	"github.com/wharfstore/core/table"
)

// Deps bundles the external collaborators Put and Delete write to.
type Deps struct {
	Objects   table.ObjectTable
	Versions  table.VersionTable
	BlockRefs table.BlockRefTable
	Store     blockstore.Store

	// Now returns the current time in milliseconds since epoch. Nil uses
	// the wall clock; tests substitute a fixed or stepped clock to pin
	// down timestamp-dependent assertions (e.g. S6 delete-marker
	// monotonicity).
	Now func() int64
}

func (d Deps) now() int64 {
	return d.Clock()
}

// Clock returns the current time in milliseconds since epoch, using d.Now
// if set or the wall clock otherwise. Exported so collaborators such as
// multipart.Coordinator, which reuses Deps, can derive timestamps the same
// way Put and Delete do.
func (d Deps) Clock() int64 {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// Config holds the build-time constants spec.md §6 calls "Configured
// constants".
type Config struct {
	// BlockSize is the fixed block size, in bytes, BodyChunker splits a
	// body into.
	BlockSize int
	// InlineThreshold is the first-block size, in bytes, from which the
	// block path is used: a first block shorter than this is stored with
	// the Inline data encoding.
	InlineThreshold int
	// S3Region is echoed verbatim into <Location> on multipart completion.
	S3Region string
}
