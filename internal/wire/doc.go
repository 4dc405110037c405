// Package wire implements the binary RPC protocol workers and the
// coordinator speak to each other: a u32 big-endian length-delimited
// frame around a gob-encoded tagged request or response, plus a small
// connection-pool client that reuses one TCP connection per peer and
// reconnects on the next call after an I/O error, without backoff.
//
// Requests and responses are modelled as Go structs carried inside a
// tagged Envelope rather than as a sum type (Go has no native tagged
// union); the gob.Register calls in this package's init ensure every payload type
// round-trips through encoding/gob regardless of which concrete type a
// given Envelope.Payload holds.
package wire
