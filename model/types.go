// Package model defines the entities replicated through the object table,
// version table and block-ref table, and the merge functions that give them
// CRDT semantics: set-union over collections, priority order over the
// ObjectVersion state lattice.
package model

import "github.com/wharfstore/core/objid"

// ObjectVersionState is the three-value lifecycle of an ObjectVersion.
type ObjectVersionState int

const (
	StateUploading ObjectVersionState = iota
	StateComplete
	StateAborted
)

func (s ObjectVersionState) String() string {
	switch s {
	case StateUploading:
		return "Uploading"
	case StateComplete:
		return "Complete"
	case StateAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// rank orders states for the merge tie-break: Complete and Aborted both beat
// Uploading, and Aborted beats Complete on the (should-never-happen)
// concurrent-terminal-state case, per SPEC_FULL.md §9's documented decision.
func (s ObjectVersionState) rank() int {
	switch s {
	case StateAborted:
		return 2
	case StateComplete:
		return 1
	default:
		return 0
	}
}

// ObjectVersionDataKind tags the variant held by ObjectVersionData.
type ObjectVersionDataKind int

const (
	DataUploading ObjectVersionDataKind = iota
	DataInline
	DataFirstBlock
	DataDeleteMarker
)

// ObjectVersionData is the tagged union of an ObjectVersion's payload
// description. Exactly one of Bytes/Hash is meaningful, selected by Kind.
type ObjectVersionData struct {
	Kind  ObjectVersionDataKind
	Bytes []byte     // set iff Kind == DataInline
	Hash  objid.Hash // set iff Kind == DataFirstBlock
}

// ObjectVersion is one immutable-once-committed snapshot of an object.
type ObjectVersion struct {
	UUID      objid.UUID
	Timestamp int64 // ms since epoch
	MimeType  string
	Size      uint64
	State     ObjectVersionState
	Data      ObjectVersionData
}

// Object is the primary-key (bucket, key) record: an append-only,
// union-merged set of ObjectVersions.
type Object struct {
	Bucket, Key string
	Versions    []ObjectVersion
}

// VersionBlock is one block's placement within a Version's byte stream.
type VersionBlock struct {
	PartNumber uint64
	Offset     uint64
	Hash       objid.Hash
	Size       uint64
}

// Version is the primary-key uuid record owned exclusively by the writer
// that created it: an append-only set of VersionBlocks.
type Version struct {
	UUID        objid.UUID
	Bucket, Key string
	Deleted     bool
	Blocks      []VersionBlock
}

// BlockRef is the reverse index from a content hash back to the versions
// that reference it.
type BlockRef struct {
	Hash        objid.Hash
	VersionUUID objid.UUID
	Deleted     bool
}
