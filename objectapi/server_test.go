package objectapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wharfstore/core/server"
)

// capturingDriver stands in for server.DefaultDriver so this test can drive
// requests through the fully composed handler (health mux + request-log
// middleware + objectapi.Handler) without binding a real port, the same way
// server/server_test.go's testDriver isolates server.Server's own plumbing.
type capturingDriver struct {
	handler http.Handler
}

func (d *capturingDriver) ListenAndServe(addr string, h http.Handler) error {
	d.handler = h
	return nil
}

func (d *capturingDriver) Shutdown(ctx context.Context) error { return nil }

// TestHandlerComposesIntoServer proves objectapi.Handler is the handler
// server.Server actually serves, not a disconnected HTTP surface: a PUT
// routed through the composed server reaches objectfsm.Put exactly as it
// would through Handler directly.
func TestHandlerComposesIntoServer(t *testing.T) {
	h := newTestHandler()
	td := &capturingDriver{}
	srv := server.New(h, &server.Options{Driver: td})

	if err := srv.ListenAndServe(":0"); err != nil {
		t.Fatalf("ListenAndServe: %v", err)
	}
	if td.handler == nil {
		t.Fatal("server.Server did not hand the driver a composed handler")
	}

	req := httptest.NewRequest(http.MethodPut, "/b/k", strings.NewReader("hello"))
	rr := httptest.NewRecorder()
	td.handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT through the composed server: status = %d, body = %s", rr.Code, rr.Body.String())
	}
}
