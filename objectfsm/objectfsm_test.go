package objectfsm

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wharfstore/core/blockstore"
	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/table"
)

func newDeps() Deps {
	return Deps{
		Objects:   table.NewMemObjectTable(),
		Versions:  table.NewMemVersionTable(),
		BlockRefs: table.NewMemBlockRefTable(),
		Store:     blockstore.NewMemStore(),
	}
}

// TestS1SmallPutIsInline is spec.md §8 scenario S1.
func TestS1SmallPutIsInline(t *testing.T) {
	deps := newDeps()
	cfg := Config{BlockSize: 4096, InlineThreshold: 3072}

	uuid, err := Put(context.Background(), deps, cfg, "b", "k", bytes.NewReader([]byte("hello")), "text/plain")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	obj, ok, err := deps.Objects.Get(context.Background(), "b", "k")
	if err != nil || !ok {
		t.Fatalf("Objects.Get: ok=%v err=%v", ok, err)
	}
	if len(obj.Versions) != 1 {
		t.Fatalf("got %d versions, want 1", len(obj.Versions))
	}
	v := obj.Versions[0]
	if v.UUID != uuid || v.State != model.StateComplete || v.Data.Kind != model.DataInline {
		t.Fatalf("version = %+v, want Complete/Inline matching returned uuid", v)
	}
	if string(v.Data.Bytes) != "hello" || v.Size != 5 {
		t.Fatalf("inline payload = %q size=%d, want %q size=5", v.Data.Bytes, v.Size, "hello")
	}

	if _, ok, _ := deps.Versions.Get(context.Background(), uuid); ok {
		t.Fatalf("inline PUT should not write a version_table row")
	}
}

// TestS2LargePutWritesBlocks is spec.md §8 scenario S2.
func TestS2LargePutWritesBlocks(t *testing.T) {
	deps := newDeps()
	cfg := Config{BlockSize: 4, InlineThreshold: 2}

	uuid, err := Put(context.Background(), deps, cfg, "b", "k", bytes.NewReader([]byte("ABCDEFGHIJ")), "blob")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	obj, ok, err := deps.Objects.Get(context.Background(), "b", "k")
	if err != nil || !ok {
		t.Fatalf("Objects.Get: ok=%v err=%v", ok, err)
	}
	v := obj.Versions[0]
	if v.State != model.StateComplete || v.Data.Kind != model.DataFirstBlock {
		t.Fatalf("version = %+v, want Complete/FirstBlock", v)
	}
	wantFirstHash := objid.ContentHash([]byte("ABCD"))
	if v.Data.Hash != wantFirstHash {
		t.Fatalf("first block hash mismatch")
	}
	if v.Size != 10 {
		t.Fatalf("size = %d, want 10", v.Size)
	}

	version, ok, err := deps.Versions.Get(context.Background(), uuid)
	if err != nil || !ok {
		t.Fatalf("Versions.Get: ok=%v err=%v", ok, err)
	}
	want := []model.VersionBlock{
		{PartNumber: 1, Offset: 0, Hash: objid.ContentHash([]byte("ABCD")), Size: 4},
		{PartNumber: 1, Offset: 4, Hash: objid.ContentHash([]byte("EFGH")), Size: 4},
		{PartNumber: 1, Offset: 8, Hash: objid.ContentHash([]byte("IJ")), Size: 2},
	}
	if diff := cmp.Diff(want, version.Blocks); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}

	for _, blk := range want {
		if _, ok, err := deps.BlockRefs.Get(context.Background(), blk.Hash, uuid); err != nil || !ok {
			t.Errorf("missing BlockRef for hash %v", blk.Hash)
		}
	}
}

func TestEmptyBodyIsBadRequest(t *testing.T) {
	deps := newDeps()
	cfg := Config{BlockSize: 4, InlineThreshold: 2}
	if _, err := Put(context.Background(), deps, cfg, "b", "k", bytes.NewReader(nil), "blob"); err == nil {
		t.Fatalf("Put with empty body should fail")
	}
}

// TestInlineBoundary is spec.md §8 invariant 2.
func TestInlineBoundary(t *testing.T) {
	cfg := Config{BlockSize: 100, InlineThreshold: 5}
	cases := []struct {
		body     string
		wantKind model.ObjectVersionDataKind
	}{
		{"abcd", model.DataInline},    // 4 < 5
		{"abcde", model.DataFirstBlock}, // 5 >= 5
	}
	for _, tc := range cases {
		deps := newDeps()
		if _, err := Put(context.Background(), deps, cfg, "b", tc.body, bytes.NewReader([]byte(tc.body)), "blob"); err != nil {
			t.Fatalf("Put(%q): %v", tc.body, err)
		}
		obj, _, _ := deps.Objects.Get(context.Background(), "b", tc.body)
		v := obj.Versions[0]
		if v.Data.Kind != tc.wantKind {
			t.Errorf("body %q: data kind = %v, want %v", tc.body, v.Data.Kind, tc.wantKind)
		}
		if v.Size != uint64(len(tc.body)) {
			t.Errorf("body %q: size = %d, want %d", tc.body, v.Size, len(tc.body))
		}
	}
}
