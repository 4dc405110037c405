package coordinator

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/dreamware/distributed-colony/internal/httpapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mux builds the coordinator's HTTP surface per §6: colony-start,
// colony-events, colony-stats, and the debug-ssm introspection endpoint.
func (c *Coordinator) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/colony-start", c.handleColonyStart)
	mux.HandleFunc("/colony-events", c.handleColonyEvents)
	mux.HandleFunc("/colony-stats", c.handleColonyStats)
	mux.HandleFunc("/debug-ssm", c.handleDebugSSM)
	mux.HandleFunc("/health", func(rw http.ResponseWriter, r *http.Request) { rw.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// idempotencySeen deduplicates POST /colony-start retries carrying the
// same X-Idempotency-Key, per the supplemented persistent-connection /
// idempotency behavior noted in the expanded spec.
var idempotencySeen = struct {
	mu   sync.Mutex
	keys map[string]struct{}
}{keys: map[string]struct{}{}}

func (c *Coordinator) handleColonyStart(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if key := r.Header.Get("X-Idempotency-Key"); key != "" {
		idempotencySeen.mu.Lock()
		_, dup := idempotencySeen.keys[key]
		idempotencySeen.keys[key] = struct{}{}
		idempotencySeen.mu.Unlock()
		if dup && c.Started() {
			httpapi.WriteJSON(rw, http.StatusAccepted, map[string]string{"status": "already started"})
			return
		}
	}

	if c.Started() {
		http.Error(rw, "colony already started", http.StatusConflict)
		return
	}

	go func() {
		if err := c.Start(context.Background()); err != nil {
			c.Log.Errorw("colony start failed", "error", err)
			return
		}
		c.runBackgroundLoops(context.Background())
	}()
	httpapi.WriteJSON(rw, http.StatusAccepted, map[string]string{"status": "starting"})
}

func (c *Coordinator) handleColonyEvents(rw http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	httpapi.WriteJSON(rw, http.StatusOK, c.ring.Latest(limit))
}

func (c *Coordinator) handleColonyStats(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	snap, err := c.TakeStatsSnapshot(r.Context())
	if err != nil {
		http.Error(rw, err.Error(), http.StatusServiceUnavailable)
		return
	}
	httpapi.WriteJSON(rw, http.StatusOK, snap)
}

// debugSSMView is the JSON shape served at GET /debug-ssm: a snapshot of
// registry membership, liveness, and the installed topology's summary
// shape, per the expanded spec's supplemented debug endpoint.
type debugSSMView struct {
	InstanceID   string          `json:"instance_id"`
	Started      bool            `json:"started"`
	Liveness     map[string]bool `json:"liveness"`
	ShardCount   int             `json:"shard_count"`
	WorkerCount  int             `json:"worker_count"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
}

func (c *Coordinator) handleDebugSSM(rw http.ResponseWriter, r *http.Request) {
	topo := c.Topology()
	width, height := c.Dimensions()
	view := debugSSMView{
		InstanceID: c.InstanceID,
		Started:    c.Started(),
		Liveness:   c.Liveness().Snapshot(),
		Width:      width,
		Height:     height,
	}
	if topo != nil {
		view.ShardCount = len(topo.Shards)
		view.WorkerCount = len(topo.BackendHosts)
	}
	httpapi.WriteJSON(rw, http.StatusOK, view)
}
