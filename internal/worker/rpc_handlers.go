package worker

import (
	"context"
	"math/rand"
	"net"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/wire"
)

// Serve accepts connections on ln and handles one Envelope request per
// connection round-trip until ctx is cancelled. Each accepted connection
// is handled in its own goroutine, matching the single-threaded
// cooperative I/O model (suspension happens on network read/write, not
// on CPU work).
func (w *Worker) Serve(ctx context.Context, ln net.Listener) error {
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
		go w.handleConn(conn)
	}
}

func (w *Worker) handleConn(conn net.Conn) {
	defer conn.Close()
	for {
		req, err := wire.Decode(conn)
		if err != nil {
			return
		}
		resp := w.Handle(req)
		if err := wire.Encode(conn, resp); err != nil {
			return
		}
	}
}

// Handle dispatches one request envelope to the matching handler, per
// §4.10's worker request list. Unknown request kinds return a typed
// ErrorResponse rather than crashing the process.
func (w *Worker) Handle(req wire.Envelope) wire.Envelope {
	switch req.Kind {
	case wire.KindPing:
		return wire.Envelope{Kind: wire.KindPong, Payload: wire.PongResponse{}}

	case wire.KindInitColonyRequest:
		p := req.Payload.(wire.InitColonyRequest)
		already := w.InitColony(p.Width, p.Height, p.Rules)
		status := wire.InitColonyOK
		if already {
			status = wire.InitColonyAlreadyInitialized
		}
		return wire.Envelope{Kind: wire.KindInitColonyResponse, Payload: wire.InitColonyResponse{Status: status}}

	case wire.KindInitColonyShardRequest:
		p := req.Payload.(wire.InitColonyShardRequest)
		result := w.InitColonyShard(p.Shard, p.Rules, p.Topology, func(cs *colony.ColonyShard) {
			colony.RandomizeInterior(cs, rand.New(rand.NewSource(rand.Int63())))
		})
		return wire.Envelope{Kind: wire.KindInitColonyShardResponse, Payload: wire.InitColonyShardResponse{
			Status: shardInitStatusToWire(result),
		}}

	case wire.KindInitShardTopographyRequest:
		p := req.Payload.(wire.InitShardTopographyRequest)
		cs, ok := w.ShardByID(p.Shard.ID())
		if !ok {
			return wire.Envelope{Kind: wire.KindInitShardTopographyResponse, Payload: wire.InitShardTopographyResponse{
				Status: wire.InitShardTopographyShardNotInitialized,
			}}
		}
		cs.Mu.Lock()
		err := colony.InitTopography(cs, p.TopographyData)
		cs.Mu.Unlock()
		if err != nil {
			return wire.Envelope{Kind: wire.KindInitShardTopographyResponse, Payload: wire.InitShardTopographyResponse{
				Status: wire.InitShardTopographyInvalidData,
			}}
		}
		return wire.Envelope{Kind: wire.KindInitShardTopographyResponse, Payload: wire.InitShardTopographyResponse{
			Status: wire.InitShardTopographyOK,
		}}

	case wire.KindGetShardCurrentTickRequest:
		p := req.Payload.(wire.GetShardCurrentTickRequest)
		cs, ok := w.ShardByID(p.Shard.ID())
		if !ok {
			return wire.Envelope{Kind: wire.KindGetShardCurrentTickResponse, Payload: wire.GetShardCurrentTickResponse{}}
		}
		cs.Mu.Lock()
		tick := cs.CurrentTick
		cs.Mu.Unlock()
		return wire.Envelope{Kind: wire.KindGetShardCurrentTickResponse, Payload: wire.GetShardCurrentTickResponse{Available: true, Tick: tick}}

	case wire.KindGetShardImageRequest:
		p := req.Payload.(wire.GetShardImageRequest)
		cs, ok := w.ShardByID(p.Shard.ID())
		if !ok {
			return wire.Envelope{Kind: wire.KindGetShardImageResponse, Payload: wire.GetShardImageResponse{}}
		}
		cs.Mu.Lock()
		img := colony.Image(cs)
		cs.Mu.Unlock()
		return wire.Envelope{Kind: wire.KindGetShardImageResponse, Payload: wire.GetShardImageResponse{Available: true, Image: img}}

	case wire.KindGetShardLayerRequest:
		p := req.Payload.(wire.GetShardLayerRequest)
		cs, ok := w.ShardByID(p.Shard.ID())
		if !ok {
			return wire.Envelope{Kind: wire.KindGetShardLayerResponse, Payload: wire.GetShardLayerResponse{}}
		}
		cs.Mu.Lock()
		data, known := colony.Layer(cs, p.Layer)
		cs.Mu.Unlock()
		if !known {
			return wire.Envelope{Kind: wire.KindGetShardLayerResponse, Payload: wire.GetShardLayerResponse{}}
		}
		return wire.Envelope{Kind: wire.KindGetShardLayerResponse, Payload: wire.GetShardLayerResponse{Available: true, Data: data}}

	case wire.KindGetShardStatsRequest:
		p := req.Payload.(wire.GetShardStatsRequest)
		cs, ok := w.ShardByID(p.Shard.ID())
		if !ok {
			return wire.Envelope{Kind: wire.KindGetShardStatsResponse, Payload: wire.GetShardStatsResponse{}}
		}
		cs.Mu.Lock()
		all := colony.ComputeStats(cs)
		cs.Mu.Unlock()
		if len(p.Metrics) > 0 {
			filtered := make(map[string]colony.Histogram, len(p.Metrics))
			for _, m := range p.Metrics {
				if h, ok := all[m]; ok {
					filtered[m] = h
				}
			}
			all = filtered
		}
		return wire.Envelope{Kind: wire.KindGetShardStatsResponse, Payload: wire.GetShardStatsResponse{Available: true, Histograms: all}}

	case wire.KindUpdatedShardContents:
		p := req.Payload.(wire.UpdatedShardContentsRequest)
		w.applyRemoteExport(p.Export)
		return wire.Envelope{Kind: wire.KindUpdatedShardContentsResponse, Payload: wire.UpdatedShardContentsResponse{}}

	case wire.KindApplyEvent:
		p := req.Payload.(wire.ApplyEventRequest)
		w.applyEventToHostedShards(p.Event)
		return wire.Envelope{Kind: wire.KindApplyEventResponse, Payload: wire.ApplyEventResponse{}}

	case wire.KindStartTicking:
		w.StartTicking()
		return wire.Envelope{Kind: wire.KindStartTickingResponse, Payload: wire.StartTickingResponse{}}

	default:
		return wire.Envelope{Kind: wire.KindErrorResponse, Payload: wire.ErrorResponsePayload{
			Message: "worker: unexpected request kind " + string(req.Kind),
		}}
	}
}

func shardInitStatusToWire(r InitColonyShardResult) wire.InitColonyShardResponseStatus {
	switch r {
	case ShardInitOK:
		return wire.InitColonyShardOK
	case ShardInitAlreadyInitialized:
		return wire.InitColonyShardAlreadyInitialized
	case ShardInitColonyNotInitialized:
		return wire.InitColonyShardColonyNotInitialized
	case ShardInitInvalidDimensions:
		return wire.InitColonyShardInvalidDimensions
	default:
		return wire.InitColonyShardError
	}
}

// applyRemoteExport splices an incoming export into every hosted shard
// that is edge-adjacent to the exporting shard (ApplySplice itself is a
// no-op for non-adjacent pairs, so this is safe to call unconditionally
// per hosted shard).
func (w *Worker) applyRemoteExport(exp colony.BorderExport) {
	for _, cs := range w.HostedShards() {
		cs.Mu.Lock()
		colony.ApplySplice(cs, exp)
		cs.Mu.Unlock()
	}
}

// applyEventToHostedShards hands ev to every hosted shard. ApplyEvent is
// itself a no-op for a region-scoped event on a shard that does not
// overlap the region; region-less events like Extinction are applied to
// every hosted shard independently.
func (w *Worker) applyEventToHostedShards(ev colony.ColonyEvent) {
	rng := rand.New(rand.NewSource(rand.Int63()))
	for _, cs := range w.HostedShards() {
		cs.Mu.Lock()
		colony.ApplyEvent(cs, ev, rng)
		cs.Mu.Unlock()
	}
}
