// Package objectapi implements the WriteEntry façade: the HTTP surface of
// spec.md §6 tying BodyChunker/BlockPipeline/ObjectVersionFSM/
// MultipartCoordinator to a bucket/key/body/headers request.
package objectapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wharfstore/core/multipart"
	"github.com/wharfstore/core/objectfsm"
	"github.com/wharfstore/core/verr"
)

// Handler is the http.Handler implementing the six method/path
// combinations of spec.md §6's HTTP surface table.
type Handler struct {
	Deps        objectfsm.Deps
	Cfg         objectfsm.Config
	Coordinator *multipart.Coordinator
}

// NewHandler returns a Handler wired against deps and cfg.
func NewHandler(deps objectfsm.Deps, cfg objectfsm.Config) *Handler {
	return &Handler{
		Deps: deps,
		Cfg:  cfg,
		Coordinator: &multipart.Coordinator{
			Deps: deps,
			Cfg:  cfg,
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	bucket, key, ok := splitBucketKey(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	switch r.Method {
	case http.MethodPut:
		if q.Has("partNumber") && q.Has("uploadId") {
			h.handlePutPart(w, r, bucket, key, q)
			return
		}
		h.handlePut(w, r, bucket, key)
	case http.MethodPost:
		if q.Has("uploads") {
			h.handleInitiateMultipart(w, r, bucket, key)
			return
		}
		if q.Has("uploadId") {
			h.handleCompleteMultipart(w, r, bucket, key, q.Get("uploadId"))
			return
		}
		http.NotFound(w, r)
	case http.MethodDelete:
		if q.Has("uploadId") {
			h.handleAbortMultipart(w, r, bucket, key, q.Get("uploadId"))
			return
		}
		h.handleDelete(w, r, bucket, key)
	default:
		w.Header().Set("Allow", "PUT, POST, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request, bucket, key string) {
	uuid, err := objectfsm.Put(r.Context(), h.Deps, h.Cfg, bucket, key, r.Body, contentType(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(uuid.String() + "\n"))
}

func (h *Handler) handleInitiateMultipart(w http.ResponseWriter, r *http.Request, bucket, key string) {
	uploadID, err := h.Coordinator.Initiate(r.Context(), bucket, key, contentType(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	body, err := marshalInitiateResult(bucket, key, uploadID)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(body)
}

func (h *Handler) handlePutPart(w http.ResponseWriter, r *http.Request, bucket, key string, q map[string][]string) {
	partStr := first(q["partNumber"])
	uploadID := first(q["uploadId"])
	partNumber, err := strconv.ParseUint(partStr, 10, 64)
	if err != nil || partNumber == 0 {
		WriteError(w, verr.New(verr.BadRequest, err, 1, fmt.Sprintf("invalid part number: %q", partStr)))
		return
	}
	if err := h.Coordinator.PutPart(r.Context(), bucket, key, partNumber, uploadID, r.Body); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleCompleteMultipart(w http.ResponseWriter, r *http.Request, bucket, key, uploadID string) {
	if _, err := h.Coordinator.Complete(r.Context(), bucket, key, uploadID); err != nil {
		WriteError(w, err)
		return
	}
	body, err := marshalCompleteResult(bucket, key, h.Cfg.S3Region)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Write(body)
}

func (h *Handler) handleAbortMultipart(w http.ResponseWriter, r *http.Request, bucket, key, uploadID string) {
	if err := h.Coordinator.Abort(r.Context(), bucket, key, uploadID); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, bucket, key string) {
	if _, err := objectfsm.Delete(r.Context(), h.Deps, bucket, key); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// splitBucketKey parses "/{bucket}/{key...}" out of an HTTP request path.
func splitBucketKey(path string) (bucket, key string, ok bool) {
	trimmed := strings.TrimPrefix(path, "/")
	idx := strings.IndexByte(trimmed, '/')
	if idx < 0 || idx == len(trimmed)-1 {
		return "", "", false
	}
	return trimmed[:idx], trimmed[idx+1:], true
}

// contentType returns the request's Content-Type, defaulting to "blob"
// when absent or non-ASCII, per spec.md §6 (ported from
// original_source's get_mime_type).
func contentType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !isASCII(ct) {
		return "blob"
	}
	return ct
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
