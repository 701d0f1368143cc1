// Package multipart implements the multipart-upload state machine
// (initiate/put_part/complete/abort) of spec.md §4.4. All state lives in the
// object and version tables; no separate in-memory upload registry is kept.
package multipart

import (
	"context"
	"fmt"
	"io"
	"sort"

	humanize "github.com/dustin/go-humanize"

	"github.com/wharfstore/core/chunk"
	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/objectfsm"
	"github.com/wharfstore/core/pipeline"
	"github.com/wharfstore/core/verr"
)

// minPartSize is the minimum size a part other than the last one must
// reach, mirroring fileblob-multipart.go's globalMinPartSize/
// isMinAllowedPartSize check. A var, not a const, so tests can shrink it
// rather than uploading real 5MiB bodies.
var minPartSize = uint64(5 * humanize.MiByte)

func isMinAllowedPartSize(size uint64) bool {
	return size >= minPartSize
}

// Coordinator drives the multipart-upload state machine against the shared
// object-write dependencies and configured block size.
type Coordinator struct {
	Deps objectfsm.Deps
	Cfg  objectfsm.Config
}

// Initiate generates a fresh upload id and publishes the Uploading
// placeholder version that anchors every subsequent PutPart/Complete/Abort
// call. The returned uploadID is the lowercase hex encoding of the version
// uuid, per spec.md §6.
func (c *Coordinator) Initiate(ctx context.Context, bucket, key, mimeType string) (string, error) {
	versionUUID := objid.NewUUID()
	ov := model.ObjectVersion{
		UUID:      versionUUID,
		Timestamp: c.Deps.Clock(),
		MimeType:  mimeType,
		Size:      0,
		State:     model.StateUploading,
		Data:      model.ObjectVersionData{Kind: model.DataUploading},
	}
	if _, err := c.Deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{ov}}); err != nil {
		return "", err
	}
	return versionUUID.String(), nil
}

// PutPart streams body's blocks into the shared Version record under
// partNumber, after validating the upload is open. It touches no
// object-table state: parts only append VersionBlocks and BlockRefs.
func (c *Coordinator) PutPart(ctx context.Context, bucket, key string, partNumber uint64, uploadID string, body io.Reader) error {
	versionUUID, err := parseUploadID(uploadID)
	if err != nil {
		return err
	}

	chunker := chunk.New(body, c.Cfg.BlockSize)
	firstBlock, firstErr := chunker.Next(ctx)
	obj, ok, objErr := c.Deps.Objects.Get(ctx, bucket, key)
	if objErr != nil {
		return objErr
	}
	if firstErr == io.EOF {
		return verr.New(verr.BadRequest, nil, 1, "empty body")
	}
	if firstErr != nil {
		code := verr.Unavailable
		if verr.Code(firstErr) == verr.Aborted {
			code = verr.Aborted
		}
		return verr.New(code, firstErr, 1, "put_part: read first block")
	}
	if !ok || !hasOpenUpload(obj, versionUUID) {
		return verr.New(verr.BadRequest, nil, 1, "multipart upload does not exist or is otherwise invalid")
	}

	pdeps := pipeline.Deps{Store: c.Deps.Store, Versions: c.Deps.Versions, BlockRefs: c.Deps.BlockRefs}
	first := pipeline.Block{PartNumber: partNumber, Offset: 0, Hash: objid.ContentHash(firstBlock), Size: uint64(len(firstBlock)), Bytes: firstBlock}
	_, err = pipeline.Run(ctx, pdeps, versionUUID, partNumber, first, chunker.Next)
	return err
}

// Complete aggregates every part written so far into a single Complete
// ObjectVersion, choosing the first block (by ascending (part_number,
// offset)) as the committed FirstBlock hash.
func (c *Coordinator) Complete(ctx context.Context, bucket, key, uploadID string) (objid.UUID, error) {
	versionUUID, err := parseUploadID(uploadID)
	if err != nil {
		return objid.Zero, err
	}

	obj, objOK, objErr := c.Deps.Objects.Get(ctx, bucket, key)
	if objErr != nil {
		return objid.Zero, objErr
	}
	version, verOK, verErr := c.Deps.Versions.Get(ctx, versionUUID)
	if verErr != nil {
		return objid.Zero, verErr
	}

	if !objOK {
		return objid.Zero, verr.New(verr.BadRequest, nil, 1, "object not found")
	}
	ov, found := findOpenUpload(obj, versionUUID)
	if !found {
		return objid.Zero, verr.New(verr.BadRequest, nil, 1, "multipart upload does not exist or has already been completed")
	}
	if !verOK || len(version.Blocks) == 0 {
		return objid.Zero, verr.New(verr.BadRequest, nil, 1, "no data was uploaded")
	}

	blocks := append([]model.VersionBlock(nil), version.Blocks...)
	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].PartNumber != blocks[j].PartNumber {
			return blocks[i].PartNumber < blocks[j].PartNumber
		}
		return blocks[i].Offset < blocks[j].Offset
	})

	var totalSize uint64
	for _, b := range blocks {
		totalSize += b.Size
	}

	// All parts except the last must meet minPartSize, the same rule
	// fileblob-multipart.go enforces on its own multipart completion path.
	type partTotal struct {
		partNumber uint64
		size       uint64
	}
	var parts []partTotal
	for _, b := range blocks {
		if len(parts) > 0 && parts[len(parts)-1].partNumber == b.PartNumber {
			parts[len(parts)-1].size += b.Size
		} else {
			parts = append(parts, partTotal{partNumber: b.PartNumber, size: b.Size})
		}
	}
	for i, p := range parts {
		if i == len(parts)-1 {
			break
		}
		if !isMinAllowedPartSize(p.size) {
			return objid.Zero, verr.New(verr.BadRequest, nil, 1, fmt.Sprintf(
				"part %d is %d bytes, below the %d byte minimum required for non-final parts", p.partNumber, p.size, minPartSize))
		}
	}

	ov.Size = totalSize
	ov.State = model.StateComplete
	ov.Data = model.ObjectVersionData{Kind: model.DataFirstBlock, Hash: blocks[0].Hash}

	if _, err := c.Deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{ov}}); err != nil {
		return objid.Zero, err
	}
	return versionUUID, nil
}

// Abort marks the upload's placeholder version Aborted. Blocks already
// written remain until an external GC sweep collects them via the BlockRef
// table, per spec.md §4.4.
func (c *Coordinator) Abort(ctx context.Context, bucket, key, uploadID string) error {
	versionUUID, err := parseUploadID(uploadID)
	if err != nil {
		return err
	}
	obj, ok, err := c.Deps.Objects.Get(ctx, bucket, key)
	if err != nil {
		return err
	}
	if !ok {
		return verr.New(verr.BadRequest, nil, 1, "object not found")
	}
	ov, found := findOpenUpload(obj, versionUUID)
	if !found {
		return verr.New(verr.BadRequest, nil, 1, "multipart upload does not exist or has already been completed")
	}
	ov.State = model.StateAborted
	_, err = c.Deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{ov}})
	return err
}

func parseUploadID(uploadID string) (objid.UUID, error) {
	id, err := objid.ParseUUID(uploadID)
	if err != nil {
		return objid.Zero, verr.New(verr.BadRequest, err, 2, "invalid upload ID")
	}
	return id, nil
}

func hasOpenUpload(obj model.Object, versionUUID objid.UUID) bool {
	_, ok := findOpenUpload(obj, versionUUID)
	return ok
}

func findOpenUpload(obj model.Object, versionUUID objid.UUID) (model.ObjectVersion, bool) {
	for _, v := range obj.Versions {
		if v.UUID == versionUUID && v.State == model.StateUploading && v.Data.Kind == model.DataUploading {
			return v, true
		}
	}
	return model.ObjectVersion{}, false
}
