// Command wharfd runs the object write path's HTTP surface: it wires
// objectapi.Handler into a server.Server, adding request logging and a
// blockstore health check ahead of it, and serves until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wharfstore/core/blockstore"
	"github.com/wharfstore/core/objectapi"
	"github.com/wharfstore/core/objectfsm"
	"github.com/wharfstore/core/objid"
	"github.com/wharfstore/core/server"
	"github.com/wharfstore/core/server/health"
	"github.com/wharfstore/core/server/requestlog"
	"github.com/wharfstore/core/table"
)

func main() {
	addr := flag.String("addr", envOr("OBJSTORE_ADDR", ":8080"), "address to listen on")
	dataDir := flag.String("data-dir", os.Getenv("OBJSTORE_DATA_DIR"), "block storage directory; empty uses an in-memory store")
	flag.Parse()

	store, err := newStore(*dataDir)
	if err != nil {
		log.Fatalf("wharfd: %v", err)
	}

	deps := objectfsm.Deps{
		Objects:   table.NewMemObjectTable(),
		Versions:  table.NewMemVersionTable(),
		BlockRefs: table.NewMemBlockRefTable(),
		Store:     store,
	}
	handler := objectapi.NewHandler(deps, objectapi.ConfigFromEnv())

	srv := server.New(handler, &server.Options{
		RequestLogger: requestlog.NewNCSALogger(os.Stdout, func(err error) {
			log.Printf("wharfd: request log write failed: %v", err)
		}),
		HealthChecks: []health.Checker{
			health.CheckerFunc(func() error { return storeRoundTrips(store) }),
		},
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(*addr) }()
	log.Printf("wharfd: listening on %s", *addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("wharfd: %v", err)
		}
	case <-sigCh:
		log.Println("wharfd: shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Fatalf("wharfd: shutdown: %v", err)
		}
	}
}

func newStore(dataDir string) (blockstore.Store, error) {
	if dataDir == "" {
		return blockstore.NewMemStore(), nil
	}
	return blockstore.NewFileStore(dataDir)
}

// healthCheckBlock is the fixed payload storeRoundTrips puts and gets back
// on every /healthz/readiness poll, to prove the configured Store is
// actually serving requests rather than just constructed successfully.
var healthCheckBlock = []byte("wharfd-health-check")

func storeRoundTrips(store blockstore.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	hash := objid.ContentHash(healthCheckBlock)
	if err := store.Put(ctx, hash, healthCheckBlock); err != nil {
		return fmt.Errorf("blockstore unhealthy: %w", err)
	}
	if _, ok, err := store.Get(ctx, hash); err != nil || !ok {
		return fmt.Errorf("blockstore unhealthy: ok=%v err=%v", ok, err)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
