package cluster

import (
	"context"
	"sync"
	"time"

	"github.com/dreamware/distributed-colony/internal/wire"
)

// ProbeLiveness opens the candidate's internal port and sends a Ping,
// keeping it only if Pong answers within timeout. Used both for the
// one-shot filter at colony-start (§4.2 step 3) and by the periodic
// re-probe below.
func ProbeLiveness(ctx context.Context, addr NodeAddress, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	resp, err := wire.Call(ctx, addr.InternalAddr(), wire.Envelope{Kind: wire.KindPing, Payload: wire.PingRequest{}})
	if err != nil {
		return false
	}
	return resp.Kind == wire.KindPong
}

// FilterLive probes every candidate concurrently-enough-by-sequence (the
// candidate list is small; sequential probing keeps the bounded 2s
// timeout simple and matches the spec's "probe liveness" step) and
// returns only those that answered Pong.
func FilterLive(ctx context.Context, candidates []NodeAddress, timeout time.Duration) []NodeAddress {
	var live []NodeAddress
	for _, c := range candidates {
		if ProbeLiveness(ctx, c, timeout) {
			live = append(live, c)
		}
	}
	return live
}

// LivenessView is the coordinator's in-memory picture of which backends
// currently answer Ping, refreshed by StartPeriodicProbe and surfaced at
// GET /debug-ssm. It supplements spec.md §4.2 (which only specifies the
// initial probe at colony-start) — it never triggers re-placement,
// since dynamic shard re-placement after start is a Non-goal.
type LivenessView struct {
	mu    sync.RWMutex
	state map[string]bool // internal addr -> alive
}

// NewLivenessView returns an empty view.
func NewLivenessView() *LivenessView {
	return &LivenessView{state: map[string]bool{}}
}

// Snapshot returns a copy of the current liveness map.
func (v *LivenessView) Snapshot() map[string]bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make(map[string]bool, len(v.state))
	for k, val := range v.state {
		out[k] = val
	}
	return out
}

func (v *LivenessView) set(addr string, alive bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state[addr] = alive
}

// StartPeriodicProbe re-probes every backend in candidates every
// interval (10s per the original's periodic discovery) until ctx is
// done, updating view. It never re-installs or mutates the topology.
func StartPeriodicProbe(ctx context.Context, view *LivenessView, candidates func() []NodeAddress, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range candidates() {
				view.set(c.InternalAddr(), ProbeLiveness(ctx, c, 2*time.Second))
			}
		}
	}
}
