package blockstore

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/wharfstore/core/objid"
)

func runStoreConformance(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	hash := objid.ContentHash([]byte("payload"))

	if _, ok, err := s.Get(ctx, hash); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v, want ok=false", ok, err)
	}
	if err := s.Put(ctx, hash, []byte("payload")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, ok, err := s.Get(ctx, hash)
	if err != nil || !ok {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Fatalf("Get returned %q, want %q", data, "payload")
	}

	// Idempotent re-Put of identical content under the same hash.
	if err := s.Put(ctx, hash, []byte("payload")); err != nil {
		t.Fatalf("second Put: %v", err)
	}
}

func TestMemStoreConformance(t *testing.T) {
	runStoreConformance(t, NewMemStore())
}

func TestFileStoreConformance(t *testing.T) {
	dir, err := ioutil.TempDir("", "blockstore-test")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	runStoreConformance(t, s)
}

func TestFileStoreShardsByHashPrefix(t *testing.T) {
	dir, err := ioutil.TempDir("", "blockstore-test")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	hash := objid.ContentHash([]byte("x"))
	if err := s.Put(context.Background(), hash, []byte("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	name := hash.String()
	want := filepath.Join(dir, name[:shardWidth], name)
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected block at %s: %v", want, err)
	}
}

func TestFileStoreRejectsOversizedBlock(t *testing.T) {
	dir, err := ioutil.TempDir("", "blockstore-test")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	orig := maxBlockBytes
	maxBlockBytes = 4
	defer func() { maxBlockBytes = orig }()

	hash := objid.ContentHash([]byte("toolong"))
	if err := s.Put(context.Background(), hash, []byte("toolong")); err == nil {
		t.Fatalf("Put of oversized block should fail")
	}
}
