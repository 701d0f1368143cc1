package model

import "github.com/wharfstore/core/objid"

// MergeObjectVersion resolves two observations of the same ObjectVersion
// uuid to the one the CRDT merge keeps. Per spec.md §3, Complete and Aborted
// both beat Uploading; Complete/Aborted concurrent on the same uuid is
// documented as "must never occur by construction", so when it does this
// picks Aborted deterministically (SPEC_FULL.md §9's tie-break decision).
func MergeObjectVersion(a, b ObjectVersion) ObjectVersion {
	if b.State.rank() > a.State.rank() {
		return b
	}
	return a
}

// MergeObject unions two Object records' version sets by uuid identity,
// resolving any uuid present in both via MergeObjectVersion.
func MergeObject(a, b Object) Object {
	out := Object{Bucket: a.Bucket, Key: a.Key}
	if out.Bucket == "" {
		out.Bucket = b.Bucket
	}
	if out.Key == "" {
		out.Key = b.Key
	}
	byUUID := make(map[objid.UUID]ObjectVersion, len(a.Versions)+len(b.Versions))
	order := make([]objid.UUID, 0, len(a.Versions)+len(b.Versions))
	add := func(v ObjectVersion) {
		if existing, ok := byUUID[v.UUID]; ok {
			byUUID[v.UUID] = MergeObjectVersion(existing, v)
			return
		}
		byUUID[v.UUID] = v
		order = append(order, v.UUID)
	}
	for _, v := range a.Versions {
		add(v)
	}
	for _, v := range b.Versions {
		add(v)
	}
	out.Versions = make([]ObjectVersion, 0, len(order))
	for _, id := range order {
		out.Versions = append(out.Versions, byUUID[id])
	}
	return out
}

// MergeVersion unions two Version records' block sets. Blocks are deduped by
// full equality so that re-delivery of an already-merged block (the pipeline
// retrying an idempotent insert, or two replicas observing the same write)
// does not produce a second copy; per the Open Question in spec.md §9, two
// distinct put_part calls at the same (part_number, offset) are NOT deduped
// when their VersionBlocks differ by Hash or Size. Only duplicates of the
// identical (part_number, offset, hash, size) tuple collapse, so re-putting
// byte-identical content at the same place leaves a single entry.
func MergeVersion(a, b Version) Version {
	out := Version{UUID: a.UUID, Bucket: a.Bucket, Key: a.Key}
	if out.Bucket == "" {
		out.Bucket = b.Bucket
	}
	if out.Key == "" {
		out.Key = b.Key
	}
	out.Deleted = a.Deleted || b.Deleted

	seen := make(map[VersionBlock]bool, len(a.Blocks)+len(b.Blocks))
	out.Blocks = make([]VersionBlock, 0, len(a.Blocks)+len(b.Blocks))
	for _, list := range [][]VersionBlock{a.Blocks, b.Blocks} {
		for _, blk := range list {
			if seen[blk] {
				continue
			}
			seen[blk] = true
			out.Blocks = append(out.Blocks, blk)
		}
	}
	return out
}

// MergeBlockRef resolves two observations of the same (hash, version_uuid)
// BlockRef. Deleted is a one-way tombstone: once either observation marks it
// deleted, the merged result stays deleted.
func MergeBlockRef(a, b BlockRef) BlockRef {
	return BlockRef{
		Hash:        a.Hash,
		VersionUUID: a.VersionUUID,
		Deleted:     a.Deleted || b.Deleted,
	}
}
