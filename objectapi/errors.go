package objectapi

import (
	"log"
	"net/http"

	"github.com/wharfstore/core/verr"
)

// WriteError maps err's verr.ErrorCode to an HTTP status and writes a short
// plain-text message, the HTTP-boundary formatting spec.md §7 assigns to
// the HTTP layer. Internal-kind errors are logged server-side (mirroring
// blob.go's best-effort log.Printf on unexpected failures) but never echo
// their underlying detail to the client.
func WriteError(w http.ResponseWriter, err error) {
	code := verr.Code(err)
	status := verr.HTTPStatus(code)

	msg := code.String()
	if code == verr.BadRequest || code == verr.InvalidArgument {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		log.Printf("objectapi: internal error: %v", err)
		msg = "internal error"
	}

	http.Error(w, msg, status)
}
