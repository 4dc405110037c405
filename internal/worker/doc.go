// Package worker implements the backend process: it hosts one or more
// ColonyShards, answers the coordinator's init handshake and the binary
// RPC protocol (package wire), runs the periodic tick loop with halo
// fan-out to local and remote neighbours, and serves the read-only HTTP
// API used by the desktop viewer and the coordinator's snapshot loop.
//
// Concurrency model: the outer tick loop and RPC server are
// single-threaded cooperative Go code; per-shard kernel work is farmed
// out to goroutines via golang.org/x/sync/errgroup so shards tick in
// parallel, bounded by GOMAXPROCS rather than by an explicit pool size.
// Each shard's own colony.ColonyShard.Mu serializes the operations that
// touch it: one kernel call, one halo splice, one event application, or
// one read for snapshot/image.
package worker
