// Package cluster provides the discovery substrate the coordinator and
// workers use to find each other: NodeAddress records, a pluggable
// Registry (filesystem for local dev, an SSM-backed stub for cloud
// deployments), liveness probing, and the set-once ClusterTopology that
// results from placement.
//
// Registration and discovery are decoupled from the simulation's own
// binary RPC protocol (package wire): the registry only ever stores and
// returns NodeAddress JSON blobs. Everything module-specific (shard
// ownership, topology) lives in ClusterTopology, installed exactly once
// by the coordinator after placement and read thereafter by every
// component that needs to resolve "which host owns this shard".
package cluster
