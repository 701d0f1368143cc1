package server

import (
	"context"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/wharfstore/core/server/driver"
	"github.com/wharfstore/core/server/health"
	"github.com/wharfstore/core/server/httplistener"
	"github.com/wharfstore/core/server/requestlog"
)

// Server is a preconfigured HTTP server with diagnostic hooks. The zero
// value is a server with the default options.
type Server struct {
	reqlog        requestlog.Logger
	handler       http.Handler
	healthHandler health.Handler
	once          sync.Once
	driver        driver.Server
}

// Options is the set of optional parameters for New.
type Options struct {
	// RequestLogger specifies the logger that will be used to log requests.
	RequestLogger requestlog.Logger

	// HealthChecks specifies the health checks to run when the
	// /healthz/readiness endpoint is requested.
	HealthChecks []health.Checker

	// Driver serves HTTP requests.
	Driver driver.Server
}

// New creates a new server. New(nil, nil) is the same as new(Server).
func New(h http.Handler, opts *Options) *Server {
	srv := &Server{handler: h}
	if opts != nil {
		srv.reqlog = opts.RequestLogger
		for _, c := range opts.HealthChecks {
			srv.healthHandler.Add(c)
		}
		srv.driver = opts.Driver
	}
	return srv
}

func (srv *Server) init() {
	srv.once.Do(func() {
		if srv.driver == nil {
			srv.driver = NewDefaultDriver()
		}
		if srv.handler == nil {
			srv.handler = http.DefaultServeMux
		}
	})
}

// ListenAndServe is a wrapper to use wherever http.ListenAndServe is used.
// It wires in /healthz/liveness and /healthz/readiness ahead of the
// configured handler. If the handler is nil, http.DefaultServeMux is used.
// A configured RequestLogger logs all requests except health checks.
func (srv *Server) ListenAndServe(addr string) error {
	srv.init()

	hr := "/healthz/"
	hcMux := http.NewServeMux()
	hcMux.HandleFunc(path.Join(hr, "liveness"), health.HandleLive)
	hcMux.Handle(path.Join(hr, "readiness"), &srv.healthHandler)

	mux := http.NewServeMux()
	mux.Handle(hr, hcMux)
	h := srv.handler
	if srv.reqlog != nil {
		h = requestlog.NewHandler(srv.reqlog, h)
	}
	mux.Handle("/", h)

	return srv.driver.ListenAndServe(addr, mux)
}

// Shutdown gracefully shuts down the server without interrupting any active
// connections.
func (srv *Server) Shutdown(ctx context.Context) error {
	if srv.driver == nil {
		return nil
	}
	return srv.driver.Shutdown(ctx)
}

// DefaultDriver implements the driver.Server interface. The zero value is a
// valid http.Server.
type DefaultDriver struct {
	Net    string // either tcp or unix
	Server http.Server
}

// NewDefaultDriver creates a driver with an http.Server with default
// timeouts.
func NewDefaultDriver() *DefaultDriver {
	return &DefaultDriver{
		Net: "tcp",
		Server: http.Server{
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// ListenAndServe sets the address and handler on DefaultDriver's
// http.Server, then calls Serve on it.
func (dd *DefaultDriver) ListenAndServe(addr string, h http.Handler) error {
	network := dd.Net
	if network == "" {
		network = "tcp"
	}
	ln, err := httplistener.NewListener(network, addr)
	if err != nil {
		return err
	}
	dd.Server.Handler = h
	return dd.Server.Serve(ln)
}

// Shutdown gracefully shuts down the server without interrupting any active
// connections, by calling Shutdown on DefaultDriver's http.Server.
func (dd *DefaultDriver) Shutdown(ctx context.Context) error {
	return dd.Server.Shutdown(ctx)
}
