package blockstore

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/verr"
)

// shardWidth is how many leading hex characters of a hash name the first
// directory level, matching fileblob's flat-vs-sharded layout tradeoff: wide
// enough that no directory holds more than a few thousand entries at
// realistic block counts, narrow enough to stay a single os.ReadDir away
// from any one block.
const shardWidth = 2

// maxBlockBytes bounds what FileStore.Put will accept, as a sanity check
// against a misconfigured caller streaming an unbounded block; 64 MiB is
// comfortably above any reasonable block_size configuration.
var maxBlockBytes = uint64(64 * humanize.MiByte)

// FileStore is a Store backed by a directory tree, one file per block,
// content-addressed by hex(hash) and sharded by its first shardWidth hex
// characters. Writes go through a temp file plus rename, the same
// crash-safe pattern blob/fileblob.go uses for its object writes, so a Put
// that is interrupted mid-write never leaves a partial file visible at the
// final path.
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir, creating dir if absent.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, verr.New(verr.Internal, err, 1, "blockstore: create root dir")
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(hash objid.Hash) string {
	name := hash.String()
	return filepath.Join(s.dir, name[:shardWidth], name)
}

func (s *FileStore) Put(ctx context.Context, hash objid.Hash, data []byte) error {
	if err := ctx.Err(); err != nil {
		return verr.New(verr.Aborted, err, 1, "blockstore: put canceled")
	}
	if uint64(len(data)) > maxBlockBytes {
		return verr.Newf(verr.BadRequest, nil, "blockstore: block of %s exceeds max block size %s",
			humanize.Bytes(uint64(len(data))), humanize.Bytes(maxBlockBytes))
	}

	path := s.path(hash)
	if _, err := os.Stat(path); err == nil {
		// Content-addressed: a block already on disk under this hash is
		// byte-identical to data by definition, so Put is a no-op.
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return verr.New(verr.Internal, err, 1, "blockstore: mkdir shard")
	}
	f, err := ioutil.TempFile(dir, "block.tmp")
	if err != nil {
		return verr.New(verr.Internal, err, 1, "blockstore: create temp file")
	}
	tmpName := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpName)
		return verr.New(verr.Internal, err, 1, "blockstore: write temp file")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return verr.New(verr.Internal, err, 1, "blockstore: close temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return verr.New(verr.Internal, err, 1, "blockstore: rename into place")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, hash objid.Hash) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, verr.New(verr.Aborted, err, 1, "blockstore: get canceled")
	}
	data, err := ioutil.ReadFile(s.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, verr.New(verr.Internal, err, 1, "blockstore: read block")
	}
	return data, true, nil
}
