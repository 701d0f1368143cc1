package objectfsm

import (
	"context"

	"github.com/wharfstore/core/model"
	"github.com/wharfstore/core/objid"
)

// Delete implements the delete-marker path of spec.md §4.6: a no-op
// returning the zero uuid when the object is absent or already fully
// tombstoned, otherwise a Complete DeleteMarker version whose timestamp
// strictly postdates every version it supersedes.
func Delete(ctx context.Context, deps Deps, bucket, key string) (objid.UUID, error) {
	obj, ok, err := deps.Objects.Get(ctx, bucket, key)
	if err != nil {
		return objid.Zero, err
	}
	if !ok {
		return objid.Zero, nil
	}

	mustDelete := false
	timestamp := deps.now()
	for _, v := range obj.Versions {
		if v.Data.Kind == model.DataDeleteMarker || v.State == model.StateAborted {
			continue
		}
		mustDelete = true
		if v.Timestamp+1 > timestamp {
			timestamp = v.Timestamp + 1
		}
	}
	if !mustDelete {
		return objid.Zero, nil
	}

	markerUUID := objid.NewUUID()
	marker := model.ObjectVersion{
		UUID:      markerUUID,
		Timestamp: timestamp,
		MimeType:  "application/x-delete-marker",
		Size:      0,
		State:     model.StateComplete,
		Data:      model.ObjectVersionData{Kind: model.DataDeleteMarker},
	}
	if _, err := deps.Objects.Insert(ctx, model.Object{Bucket: bucket, Key: key, Versions: []model.ObjectVersion{marker}}); err != nil {
		return objid.Zero, err
	}
	return markerUUID, nil
}
