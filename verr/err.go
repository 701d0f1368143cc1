// Package verr defines the error kinds surfaced across the object write
// path and the HTTP status codes they map to at the request boundary.
package verr

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/xerrors"
)

// ErrorCode describes the error's category.
type ErrorCode int

const (
	// OK returned by Code on a nil error. Not a valid code for an error.
	OK ErrorCode = iota

	// Unknown returned when the error could not be categorized.
	Unknown

	// NotFound represents a resource (object, version, upload) that does
	// not exist.
	NotFound

	// AlreadyExists error returned when a resource already exists, but it
	// should not.
	AlreadyExists

	// InvalidArgument error returned when a value given to an API is
	// incorrect.
	InvalidArgument

	// Internal errors always indicate bugs in this package (or the
	// underlying table/block-store provider).
	Internal

	// Unimplemented means the feature is not implemented in the specified
	// call.
	Unimplemented

	// FailedPrecondition: the system was in the wrong state.
	FailedPrecondition

	// PermissionDenied: the caller does not have permission to execute the
	// specified operation.
	PermissionDenied

	// ResourceExhausted indicates some resource has been exhausted, perhaps
	// a per-user quota, or perhaps the block store is out of space.
	ResourceExhausted

	// Aborted indicates the operation was aborted, typically due to
	// context cancellation or a concurrent state transition.
	Aborted

	// Unavailable indicates the table or block-store RPC is currently
	// unavailable. Mostly a transient condition.
	Unavailable

	// Unauthenticated indicates the request does not have valid
	// authentication credentials for the operation.
	Unauthenticated

	// BadRequest: the client sent something the write path rejects outright
	// (empty body, malformed upload id or part number, an upload/version
	// that doesn't exist in the expected state).
	BadRequest

	// Timeout: an RPC to the table or block store exceeded its deadline.
	Timeout

	// Encoding: a binary codec error on a table round trip. Should never
	// occur on data this system itself wrote.
	Encoding
)

func (c ErrorCode) String() string {
	switch c {
	case OK:
		return "OK"
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case InvalidArgument:
		return "InvalidArgument"
	case Internal:
		return "Internal"
	case Unimplemented:
		return "Unimplemented"
	case FailedPrecondition:
		return "FailedPrecondition"
	case PermissionDenied:
		return "PermissionDenied"
	case ResourceExhausted:
		return "ResourceExhausted"
	case Aborted:
		return "Aborted"
	case Unavailable:
		return "Unavailable"
	case Unauthenticated:
		return "Unauthenticated"
	case BadRequest:
		return "BadRequest"
	case Timeout:
		return "Timeout"
	case Encoding:
		return "Encoding"
	default:
		return "Unknown"
	}
}

// HTTPStatus maps an ErrorCode to the status code the HTTP boundary should
// respond with.
func HTTPStatus(c ErrorCode) int {
	switch c {
	case OK:
		return http.StatusOK
	case NotFound:
		return http.StatusNotFound
	case AlreadyExists:
		return http.StatusConflict
	case InvalidArgument, BadRequest:
		return http.StatusBadRequest
	case Unimplemented:
		return http.StatusNotImplemented
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case PermissionDenied:
		return http.StatusForbidden
	case ResourceExhausted:
		return http.StatusTooManyRequests
	case Aborted:
		return http.StatusConflict
	case Unavailable:
		return http.StatusServiceUnavailable
	case Unauthenticated:
		return http.StatusUnauthorized
	case Timeout:
		return http.StatusGatewayTimeout
	case Encoding, Internal, Unknown:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Error is the concrete error type carried across the write path. It pairs
// an ErrorCode with the call frame that raised it and, optionally, the
// underlying error it wraps.
type Error struct {
	Code  ErrorCode
	msg   string
	frame xerrors.Frame
	err   error
}

func (e *Error) Error() string {
	return fmt.Sprint(e)
}

func (e *Error) Format(s fmt.State, c rune) {
	xerrors.FormatError(e, s, c)
}

func (e *Error) FormatError(p xerrors.Printer) (next error) {
	if e.msg == "" {
		p.Printf("code=%v", e.Code)
	} else {
		p.Printf("%s (code=%v)", e.msg, e.Code)
	}
	e.frame.Format(p)
	return e.err
}

// Unwrap returns the error underlying the receiver, which may be nil.
func (e *Error) Unwrap() error {
	return e.err
}

// New returns a new error with the given code, underlying error and message.
// Pass 1 for callDepth if New is called from the function raising the
// error; pass 2 if it is called from a helper that function invoked; and so
// on.
func New(c ErrorCode, err error, callDepth int, msg string) *Error {
	return &Error{
		Code:  c,
		msg:   msg,
		frame: xerrors.Caller(callDepth),
		err:   err,
	}
}

// Newf uses format and args to format a message, then calls New.
func Newf(c ErrorCode, err error, format string, args ...interface{}) *Error {
	return New(c, err, 2, fmt.Sprintf(format, args...))
}

// Code returns the ErrorCode of err if it, or some error it wraps, is an
// *Error. If err is context.Canceled or context.DeadlineExceeded, or wraps
// one of those, it returns Aborted. If err is nil, it returns OK. Otherwise
// it returns Unknown.
func Code(err error) ErrorCode {
	if err == nil {
		return OK
	}
	var e *Error
	if xerrors.As(err, &e) {
		return e.Code
	}
	if xerrors.Is(err, context.Canceled) || xerrors.Is(err, context.DeadlineExceeded) {
		return Aborted
	}
	return Unknown
}

// DoNotWrap reports whether an error should not be wrapped in the Error
// type from this package. It returns true if err is a context error, io.EOF,
// or wraps one of those — signals the caller should propagate as-is rather
// than attach a call frame and code.
func DoNotWrap(err error) bool {
	return xerrors.Is(err, io.EOF) ||
		xerrors.Is(err, context.Canceled) ||
		xerrors.Is(err, context.DeadlineExceeded)
}
