// Package coordinator implements the singleton coordinator process:
// discovery and shard placement (§4.2), the init handshake that brings
// every worker up (§4.3), the stochastic event loop (§4.7) driven by
// five independent frequency classes, and the snapshot loop (§4.9) that
// periodically pulls shard images over HTTP and stat histograms over the
// binary RPC protocol, and writes them to disk.
//
// The coordinator never talks to workers over anything but the two
// read/write surfaces the rest of the system defines: the binary RPC
// protocol (package wire) for the init handshake, event fan-out,
// current-tick and GetShardStats queries, and routing-table queries, and
// each worker's read-only HTTP API for shard image pulls. The
// coordinator's own RPC connections are separate from the
// worker-to-worker connections that carry halo traffic.
package coordinator
