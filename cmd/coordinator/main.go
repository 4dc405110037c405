// Command coordinator runs the singleton coordinator process: cluster
// discovery and shard placement, the init handshake, the colony event
// loop, and the periodic snapshot loop. It exposes both a binary RPC
// listener (Ping, GetRoutingTable) and the read-only HTTP API (§6).
//
// Usage:
//
//	coordinator <rpc_port> <http_port> <mode>
//
// mode is one of "localhost" or "aws". In aws mode, a single
// <mode> argument may be given instead, with ports taken from the
// RPC_PORT and HTTP_PORT environment variables.
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
	"github.com/dreamware/distributed-colony/internal/coordinator"
	"github.com/dreamware/distributed-colony/internal/logging"
)

func main() {
	rpcPort, httpPort, mode := parseArgs(os.Args)

	logger, err := logging.New("coordinator", mode)
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

	bindHost := "127.0.0.1"
	if mode == "aws" {
		bindHost = "0.0.0.0"
	}
	privateIP, publicIP := hostIPs(mode)
	self := cluster.NodeAddress{
		PrivateIP:    privateIP,
		PublicIP:     publicIP,
		InternalPort: rpcPort,
		HTTPPort:     httpPort,
	}

	outputDir := getenv("COLONY_OUTPUT_DIR", "output/s3/distributed-colony")
	c := coordinator.New(self, logger, registry, tuning, outputDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", bindHost, rpcPort))
	if err != nil {
		logger.Fatalw("bind internal listener", "port", rpcPort, "error", err)
	}
	go func() {
		if err := c.Serve(ctx, ln); err != nil {
			logger.Errorw("rpc server stopped", "error", err)
		}
	}()

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bindHost, httpPort),
		Handler:           c.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infow("coordinator http listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("http server failed", "error", err)
		}
	}()

	if err := registry.RegisterCoordinator(ctx, self); err != nil {
		logger.Errorw("register coordinator", "error", err)
	} else {
		logger.Infow("registered coordinator", "internal_addr", self.InternalAddr(), "http_addr", self.HTTPAddr())
	}

	logger.Infow("waiting for POST /colony-start to initialize topology and colony", "mode", mode)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("http shutdown error", "error", err)
	}
	if err := registry.UnregisterCoordinator(context.Background()); err != nil {
		logger.Errorw("unregister coordinator", "error", err)
	}
	logger.Info("coordinator stopped")
}

// parseArgs mirrors the source's two accepted call shapes: the
// fixed-arity "<rpc_port> <http_port> <mode>" form, or a single "aws"
// argument with ports supplied via RPC_PORT/HTTP_PORT.
func parseArgs(args []string) (rpcPort, httpPort int, mode string) {
	usage := func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <rpc_port> <http_port> <mode>\n", args[0])
		fmt.Fprintf(os.Stderr, "Example: %s 8082 8083 localhost\n", args[0])
		fmt.Fprintln(os.Stderr, "Deployment modes: localhost, aws")
		fmt.Fprintln(os.Stderr, "In aws mode, RPC_PORT and HTTP_PORT environment variables may be used instead")
	}

	switch len(args) {
	case 2:
		mode = args[1]
		if mode != "aws" {
			usage()
			os.Exit(1)
		}
		var err error
		rpcPort, err = strconv.Atoi(os.Getenv("RPC_PORT"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "RPC_PORT environment variable must be set in aws mode")
			os.Exit(1)
		}
		httpPort, err = strconv.Atoi(os.Getenv("HTTP_PORT"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "HTTP_PORT environment variable must be set in aws mode")
			os.Exit(1)
		}
		return rpcPort, httpPort, mode

	case 4:
		var err error
		rpcPort, err = strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "rpc port must be a valid number")
			os.Exit(1)
		}
		httpPort, err = strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "http port must be a valid number")
			os.Exit(1)
		}
		mode = args[3]
		if mode != "localhost" && mode != "aws" {
			usage()
			os.Exit(1)
		}
		return rpcPort, httpPort, mode

	default:
		usage()
		os.Exit(1)
		return 0, 0, ""
	}
}

// hostIPs returns the (private, public) IP pair this process registers
// under. AWS metadata discovery is out of scope (an external
// collaborator per spec.md §1); aws mode falls back to the bind-all
// address, overridable via COLONY_PRIVATE_IP/COLONY_PUBLIC_IP.
func hostIPs(mode string) (private, public string) {
	if mode == "aws" {
		return getenv("COLONY_PRIVATE_IP", "0.0.0.0"), getenv("COLONY_PUBLIC_IP", "0.0.0.0")
	}
	return "127.0.0.1", "127.0.0.1"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
