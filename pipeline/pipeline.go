// Package pipeline implements BlockPipeline: the pipelined two-track fan-out
// that persists a block's data (block store) and metadata (version/blockref
// tables) while the chunker produces the next block, overlapping block N's
// network round trip with block N+1's preparation.
package pipeline

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/wharfstore/core/blockstore"
	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/table"
)

// Deps bundles the external collaborators BlockPipeline writes to.
type Deps struct {
	Store     blockstore.Store
	Versions  table.VersionTable
	BlockRefs table.BlockRefTable
}

// Block is one unit of pipeline work: bytes already read from the body plus
// the placement metadata that will become a VersionBlock.
type Block struct {
	PartNumber uint64
	Offset     uint64
	Hash       objid.Hash
	Size       uint64
	Bytes      []byte
}

// Run persists first and every subsequent block next produces (next returns
// io.EOF-wrapped nil,io.EOF when exhausted, matching chunk.BodyChunker.Next),
// all belonging to partNumber, with offsets starting at first.Offset and
// increasing contiguously by each block's size. It returns the total bytes
// persisted across every block.
//
// Before advancing from block N to N+1, Run awaits three things together:
// block N's data write, block N's metadata write, and the production of
// block N+1's bytes — so the network round trip of N overlaps the buffering
// of N+1. Any one of the three failing aborts the whole call.
func Run(ctx context.Context, deps Deps, versionUUID objid.UUID, partNumber uint64, first Block, next func(context.Context) ([]byte, error)) (uint64, error) {
	var total uint64
	current := first
	offset := first.Offset

	for {
		g, gctx := errgroup.WithContext(ctx)
		blk := current
		var nextBytes []byte
		var nextErr error
		moreWork := next != nil

		g.Go(func() error {
			return deps.Store.Put(gctx, blk.Hash, blk.Bytes)
		})
		g.Go(func() error {
			return persistMetadata(gctx, deps, versionUUID, blk)
		})
		if moreWork {
			g.Go(func() error {
				b, err := next(gctx)
				if err != nil {
					nextErr = err
					return nil
				}
				nextBytes = b
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return total, err
		}

		total += blk.Size
		offset += blk.Size

		if !moreWork || nextErr != nil {
			if moreWork && !isEOF(nextErr) {
				return total, nextErr
			}
			return total, nil
		}

		current = Block{
			PartNumber: partNumber,
			Offset:     offset,
			Hash:       objid.ContentHash(nextBytes),
			Size:       uint64(len(nextBytes)),
			Bytes:      nextBytes,
		}
	}
}

func persistMetadata(ctx context.Context, deps Deps, versionUUID objid.UUID, blk Block) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := deps.Versions.Insert(gctx, model.Version{
			UUID: versionUUID,
			Blocks: []model.VersionBlock{{
				PartNumber: blk.PartNumber,
				Offset:     blk.Offset,
				Hash:       blk.Hash,
				Size:       blk.Size,
			}},
		})
		return err
	})
	g.Go(func() error {
		_, err := deps.BlockRefs.Insert(gctx, model.BlockRef{
			Hash:        blk.Hash,
			VersionUUID: versionUUID,
		})
		return err
	})
	return g.Wait()
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
