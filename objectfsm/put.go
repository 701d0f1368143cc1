package objectfsm

import (
	"context"
	"io"

	"github.com/wharfstore/core/chunk"
	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/pipeline"
	"github.com/wharfstore/core/verr"
)

// Put implements the simple-PUT three-phase commit protocol of spec.md
// §4.3, grounded on original_source's handle_put: inline fast path for
// small bodies, otherwise a placeholder Uploading publish followed by
// pipelined block streaming and a final Complete commit.
func Put(ctx context.Context, deps Deps, cfg Config, bucket, key string, body io.Reader, mimeType string) (objid.UUID, error) {
	versionUUID := objid.NewUUID()
	chunker := chunk.New(body, cfg.BlockSize)

	firstBlock, err := chunker.Next(ctx)
	if err == io.EOF {
		return objid.Zero, verr.New(verr.BadRequest, nil, 1, "empty body")
	}
	if err != nil {
		code := verr.Unavailable
		if verr.Code(err) == verr.Aborted {
			code = verr.Aborted
		}
		return objid.Zero, verr.New(code, err, 1, "put: read first block")
	}

	ov := model.ObjectVersion{
		UUID:      versionUUID,
		Timestamp: deps.now(),
		MimeType:  mimeType,
		Size:      uint64(len(firstBlock)),
		State:     model.StateUploading,
		Data:      model.ObjectVersionData{Kind: model.DataUploading},
	}

	if len(firstBlock) < cfg.InlineThreshold {
		ov.State = model.StateComplete
		ov.Data = model.ObjectVersionData{Kind: model.DataInline, Bytes: firstBlock}
		if _, err := deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{ov}}); err != nil {
			return objid.Zero, err
		}
		return versionUUID, nil
	}

	firstHash := objid.ContentHash(firstBlock)
	ov.Data = model.ObjectVersionData{Kind: model.DataFirstBlock, Hash: firstHash}
	if _, err := deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{ov}}); err != nil {
		return objid.Zero, err
	}

	pdeps := pipeline.Deps{Store: deps.Store, Versions: deps.Versions, BlockRefs: deps.BlockRefs}
	first := pipeline.Block{PartNumber: 1, Offset: 0, Hash: firstHash, Size: uint64(len(firstBlock)), Bytes: firstBlock}
	total, err := pipeline.Run(ctx, pdeps, versionUUID, 1, first, chunker.Next)
	if err != nil {
		// The placeholder stays Uploading; an external sweeper is the
		// recovery path, per spec.md §4.2/§9.
		return objid.Zero, err
	}

	ov.State = model.StateComplete
	ov.Size = total
	if _, err := deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{ov}}); err != nil {
		return objid.Zero, err
	}
	return versionUUID, nil
}
