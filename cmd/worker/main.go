// Command worker runs one backend process of the distributed colony
// simulation: it hosts a set of shards assigned to it by the
// coordinator's init handshake, ticks them, and exchanges halo borders
// with its neighbours, both local and remote.
//
// Usage:
//
//	worker <hostname> <port>
//
// <port> is the internal binary-RPC port (the address the coordinator
// and other workers dial). The read-only HTTP API listens on
// <port>+1 by default, overridable with WORKER_HTTP_PORT.
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dreamware/distributed-colony/internal/cluster"
	"github.com/dreamware/distributed-colony/internal/config"
	"github.com/dreamware/distributed-colony/internal/logging"
	"github.com/dreamware/distributed-colony/internal/storage"
	"github.com/dreamware/distributed-colony/internal/worker"
	"github.com/google/uuid"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <hostname> <port>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s 127.0.0.1 8082\n", os.Args[0])
		os.Exit(1)
	}
	hostname := os.Args[1]
	port, err := strconv.Atoi(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "port must be a valid number: %v\n", err)
		os.Exit(1)
	}
	httpPort := getenvInt("WORKER_HTTP_PORT", port+1)
	mode := getenv("COLONY_MODE", "localhost")

	logger, err := logging.New("worker", mode)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck
	defer func() {
		if r := recover(); r != nil {
			logger.Errorw("panic", "value", r)
			panic(r)
		}
	}()

	tuning, err := config.Load(getenv("COLONY_CONFIG", ""), config.Mode(mode))
	if err != nil {
		logger.Fatalw("load config", "error", err)
	}

	registry, err := cluster.NewRegistry(mode, tuning.RegistryDir)
	if err != nil {
		logger.Fatalw("construct registry", "error", err)
	}

	self := cluster.NodeAddress{
		PrivateIP:    hostname,
		PublicIP:     hostname,
		InternalPort: port,
		HTTPPort:     httpPort,
	}

	checkpointDir := getenv("COLONY_CHECKPOINT_DIR", "output/checkpoints")
	checkpoints, err := storage.NewCheckpointStore(checkpointDir)
	if err != nil {
		logger.Fatalw("construct checkpoint store", "error", err)
	}

	w := worker.New(self, logger, checkpoints)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", self.InternalAddr())
	if err != nil {
		logger.Fatalw("bind internal listener", "addr", self.InternalAddr(), "error", err)
	}
	go func() {
		if err := w.Serve(ctx, ln); err != nil {
			logger.Errorw("rpc server stopped", "error", err)
		}
	}()

	httpSrv := &http.Server{
		Addr:              self.HTTPAddr(),
		Handler:           w.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infow("worker http listening", "addr", self.HTTPAddr())
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("http server failed", "error", err)
		}
	}()

	instanceID := getenv("WORKER_INSTANCE_ID", uuid.NewString())
	if err := registry.RegisterBackend(ctx, instanceID, self); err != nil {
		logger.Errorw("register backend", "error", err)
	}

	tickPeriod := time.Duration(tuning.TickPeriodMS) * time.Millisecond
	go w.Run(ctx, tickPeriod)

	logger.Infow("worker started", "internal_addr", self.InternalAddr(), "http_addr", self.HTTPAddr(), "mode", mode)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown error", "error", err)
	}
	if err := registry.UnregisterBackend(context.Background(), instanceID); err != nil {
		logger.Errorw("unregister backend", "error", err)
	}
	logger.Info("worker stopped")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
