package chunk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func drainAll(t *testing.T, c *BodyChunker) [][]byte {
	t.Helper()
	var blocks [][]byte
	for {
		b, err := c.Next(context.Background())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// TestChunkingRoundTrip is spec.md §8 invariant 1.
func TestChunkingRoundTrip(t *testing.T) {
	cases := []struct {
		body string
		size int
	}{
		{"", 4},
		{"a", 4},
		{"ABCDEFGHIJ", 4},
		{"ABCD", 4},
		{"hello", 4096},
	}
	for _, tc := range cases {
		c := New(bytes.NewReader([]byte(tc.body)), tc.size)
		blocks := drainAll(t, c)

		var joined []byte
		for i, b := range blocks {
			joined = append(joined, b...)
			if i < len(blocks)-1 && len(b) != tc.size {
				t.Errorf("body %q size %d: non-terminal block %d has length %d, want %d", tc.body, tc.size, i, len(b), tc.size)
			}
		}
		if len(blocks) > 0 {
			last := blocks[len(blocks)-1]
			if len(last) < 1 || len(last) > tc.size {
				t.Errorf("body %q size %d: terminal block length %d out of [1,%d]", tc.body, tc.size, len(last), tc.size)
			}
		}
		if !bytes.Equal(joined, []byte(tc.body)) {
			t.Errorf("body %q size %d: joined blocks = %q, want %q", tc.body, tc.size, joined, tc.body)
		}
	}
}

func TestEmptyBodyYieldsZeroBlocks(t *testing.T) {
	c := New(bytes.NewReader(nil), 4)
	blocks := drainAll(t, c)
	if len(blocks) != 0 {
		t.Fatalf("empty body yielded %d blocks, want 0", len(blocks))
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestReadErrorIsFatalAndSticky(t *testing.T) {
	boom := errors.New("boom")
	c := New(errReader{boom}, 4)
	if _, err := c.Next(context.Background()); err != boom {
		t.Fatalf("Next() error = %v, want %v", err, boom)
	}
	if _, err := c.Next(context.Background()); err != boom {
		t.Fatalf("chunker should replay the same error after it fails once, got %v", err)
	}
}

func TestSizesExactSplit(t *testing.T) {
	c := New(bytes.NewReader([]byte("ABCDEFGH")), 4)
	b1, err := c.Next(context.Background())
	if err != nil || string(b1) != "ABCD" {
		t.Fatalf("block 1 = %q, err=%v", b1, err)
	}
	b2, err := c.Next(context.Background())
	if err != nil || string(b2) != "EFGH" {
		t.Fatalf("block 2 = %q, err=%v", b2, err)
	}
	if _, err := c.Next(context.Background()); err != io.EOF {
		t.Fatalf("expected io.EOF after exact split, got %v", err)
	}
}

func TestNextRespectsCanceledContext(t *testing.T) {
	c := New(bytes.NewReader([]byte("ABCD")), 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Next(ctx); err == nil {
		t.Fatalf("Next with canceled context should fail")
	}
}
