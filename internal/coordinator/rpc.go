package coordinator

import (
	"context"
	"net"

	"github.com/dreamware/distributed-colony/internal/wire"
)

// Serve accepts connections on ln and handles one Envelope request per
// connection round-trip until ctx is cancelled, mirroring the worker's
// binary RPC server. The coordinator's own internal_port speaks this
// same framed protocol so that a worker's liveness probe (Ping) and the
// viewer's GetRoutingTable query use one uniform transport, per §4.10.
func (c *Coordinator) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go c.handleConn(conn)
	}
}

func (c *Coordinator) handleConn(conn net.Conn) {
	defer conn.Close()
	for {
		req, err := wire.Decode(conn)
		if err != nil {
			return
		}
		resp := c.Handle(req)
		if err := wire.Encode(conn, resp); err != nil {
			return
		}
	}
}

// Handle dispatches one request envelope. The coordinator only answers
// Ping (so workers and the viewer can treat it like any other peer) and
// GetRoutingTable (§4.10); everything else is a typed error response.
func (c *Coordinator) Handle(req wire.Envelope) wire.Envelope {
	switch req.Kind {
	case wire.KindPing:
		return wire.Envelope{Kind: wire.KindPong, Payload: wire.PongResponse{}}

	case wire.KindGetRoutingTableRequest:
		topo := c.Topology()
		if topo == nil {
			return wire.Envelope{Kind: wire.KindGetRoutingTableResponse, Payload: wire.GetRoutingTableResponse{}}
		}
		entries := make([]wire.RoutingEntry, 0, len(topo.Shards))
		for _, s := range topo.Shards {
			host, ok := topo.HostFor(s)
			if !ok {
				continue
			}
			entries = append(entries, wire.RoutingEntry{
				Shard:    s,
				Hostname: host.PrivateIP,
				Port:     host.InternalPort,
			})
		}
		return wire.Envelope{Kind: wire.KindGetRoutingTableResponse, Payload: wire.GetRoutingTableResponse{Entries: entries}}

	default:
		return wire.Envelope{Kind: wire.KindErrorResponse, Payload: wire.ErrorResponsePayload{
			Message: "coordinator: unexpected request kind " + string(req.Kind),
		}}
	}
}
