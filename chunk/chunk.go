// Package chunk implements the lazy, back-pressured BodyChunker that turns
// a streaming HTTP body into a finite sequence of fixed-size blocks.
package chunk

import (
	"context"
	"io"
)

// BodyChunker adapts r into a sequence of byte slices of length exactly
// blockSize, except the last, which may be shorter and non-empty. An empty
// body yields zero blocks. It is pull-based: nothing is read from r until
// Next is called, so a slow consumer naturally throttles the upstream read.
type BodyChunker struct {
	r         io.Reader
	blockSize int
	buf       []byte
	eof       bool
	err       error
}

// New returns a BodyChunker reading from r in blocks of blockSize bytes.
// blockSize must be at least 1.
func New(r io.Reader, blockSize int) *BodyChunker {
	return &BodyChunker{r: r, blockSize: blockSize}
}

// Next returns the next block, or (nil, io.EOF) once the body is exhausted.
// Any other read error from the underlying reader is fatal: the chunker is
// unusable after it, and every subsequent call returns the same error.
func (c *BodyChunker) Next(ctx context.Context) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return nil, err
	}

	for len(c.buf) < c.blockSize && !c.eof {
		chunk := make([]byte, c.blockSize)
		n, err := c.r.Read(chunk)
		if n > 0 {
			c.buf = append(c.buf, chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				c.eof = true
				break
			}
			c.err = err
			return nil, err
		}
	}

	if len(c.buf) == 0 && c.eof {
		c.err = io.EOF
		return nil, io.EOF
	}

	if len(c.buf) <= c.blockSize {
		block := c.buf
		c.buf = nil
		return block, nil
	}

	block := c.buf[:c.blockSize]
	c.buf = c.buf[c.blockSize:]
	return block, nil
}
