package worker

import (
	"encoding/binary"
	"net/http"
	"strings"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/httpapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mux builds the worker's read-only HTTP API per spec.md §6: shard
// image/layer, and colony-info.
func (w *Worker) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/colony-info", w.handleColonyInfo)
	mux.HandleFunc("/api/shard/", w.handleShardRoute)
	mux.HandleFunc("/health", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// handleShardRoute dispatches /api/shard/<id>/image and
// /api/shard/<id>/layer/<name>.
func (w *Worker) handleShardRoute(rw http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/shard/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) < 2 {
		http.NotFound(rw, r)
		return
	}
	shardID, sub := parts[0], parts[1]
	cs, ok := w.ShardByID(shardID)
	if !ok {
		http.Error(rw, "shard not available", http.StatusNotFound)
		return
	}

	switch {
	case sub == "image":
		cs.Mu.Lock()
		img := colony.Image(cs)
		cs.Mu.Unlock()
		rw.Header().Set("Content-Type", "application/octet-stream")
		_, _ = rw.Write(img)

	case strings.HasPrefix(sub, "layer/"):
		layerName := strings.TrimPrefix(sub, "layer/")
		cs.Mu.Lock()
		data, known := colony.Layer(cs, layerName)
		cs.Mu.Unlock()
		if !known {
			http.Error(rw, "unknown layer", http.StatusBadRequest)
			return
		}
		rw.Header().Set("Content-Type", "application/octet-stream")
		var countBuf [4]byte
		binary.LittleEndian.PutUint32(countBuf[:], uint32(len(data)))
		_, _ = rw.Write(countBuf[:])
		buf := make([]byte, 4*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
		}
		_, _ = rw.Write(buf)

	default:
		http.NotFound(rw, r)
	}
}

// colonyInfo is the JSON shape served at /api/colony-info.
type colonyInfo struct {
	WorkerID     string   `json:"worker_id"`
	HostedShards []string `json:"hosted_shards"`
	Ticking      bool     `json:"ticking"`
}

func (w *Worker) handleColonyInfo(rw http.ResponseWriter, r *http.Request) {
	shards := w.HostedShards()
	ids := make([]string, 0, len(shards))
	for _, cs := range shards {
		ids = append(ids, cs.Key.ID())
	}
	httpapi.WriteJSON(rw, http.StatusOK, colonyInfo{
		WorkerID:     w.Self.InternalAddr(),
		HostedShards: ids,
		Ticking:      w.IsTicking(),
	})
}
