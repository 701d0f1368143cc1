// Package requestlog defines the request-logging interface server.Server
// wraps every non-healthcheck request with, plus the HTTP handler that
// populates an Entry per request and hands it to a Logger.
package requestlog

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader is the response header carrying the per-request
// correlation id, so a client can quote it back when reporting an issue.
const requestIDHeader = "X-Request-Id"

// A Logger logs completed HTTP requests.
type Logger interface {
	Log(*Entry)
}

// An Entry records the standard attributes of an HTTP request, for
// logging. NCSALogger consumes the NCSA Combined Log Format subset of
// these fields; other Loggers may use more.
type Entry struct {
	Request *http.Request

	// RequestID correlates this Entry with the X-Request-Id response
	// header sent back to the client.
	RequestID string

	ReceivedTime time.Time
	RequestMethod string
	RequestURL    string
	Proto         string
	RemoteIP      string
	Referer       string
	UserAgent     string

	Status           int
	ResponseBodySize int64
	Latency          time.Duration
}

// NewHandler returns an http.Handler that serves every request through h,
// recording an Entry for each one and passing it to l.Log.
func NewHandler(l Logger, h http.Handler) http.Handler {
	if h == nil {
		h = http.DefaultServeMux
	}
	return &handler{logger: l, handler: h}
}

type handler struct {
	logger  Logger
	handler http.Handler
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := uuid.New().String()
	w.Header().Set(requestIDHeader, reqID)
	rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

	h.handler.ServeHTTP(rw, r)

	host := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		host = ip
	}

	h.logger.Log(&Entry{
		Request:          r,
		RequestID:         reqID,
		ReceivedTime:      start,
		RequestMethod:     r.Method,
		RequestURL:        r.URL.String(),
		Proto:             r.Proto,
		RemoteIP:          host,
		Referer:           r.Referer(),
		UserAgent:         r.UserAgent(),
		Status:            rw.status,
		ResponseBodySize:  rw.size,
		Latency:           time.Since(start),
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code and
// response body size actually written.
type responseWriter struct {
	http.ResponseWriter
	status      int
	size        int64
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}
