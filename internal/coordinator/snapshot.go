package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/dreamware/distributed-colony/internal/colony"
	"github.com/dreamware/distributed-colony/internal/httpapi"
	"github.com/dreamware/distributed-colony/internal/wire"
)

// statsSnapshot is the JSON document written every 10s, and returned by
// POST /colony-stats, per §4.9.
type statsSnapshot struct {
	Timestamp     time.Time                 `json:"timestamp"`
	Rules         colony.ColonyLifeRules    `json:"rules"`
	Histograms    map[string]colony.Histogram `json:"histograms"`
	RecentEvents  []EventDescription        `json:"recent_events"`
	Meta          snapshotMeta              `json:"meta"`
}

type snapshotMeta struct {
	Partial       bool     `json:"partial"`
	MissingShards []string `json:"missing_shards,omitempty"`
}

// RunStatsSnapshotLoop writes a merged stats histogram to disk every
// 10s, per §4.9. A shard that fails to respond within its own timeout
// is recorded as missing rather than aborting the whole snapshot.
func (c *Coordinator) RunStatsSnapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.TakeStatsSnapshot(ctx); err != nil {
				c.Log.Errorw("stats snapshot failed", "error", err)
			}
		}
	}
}

// TakeStatsSnapshot fetches every hosted shard's stats, merges them
// (minimum occurrence count 20 per bucket), and writes the result to
// disk, returning the snapshot written.
func (c *Coordinator) TakeStatsSnapshot(ctx context.Context) (statsSnapshot, error) {
	topo := c.Topology()
	if topo == nil {
		return statsSnapshot{}, fmt.Errorf("coordinator: colony not started")
	}

	perMetric := map[string][]colony.Histogram{
		"health": nil, "size": nil, "can_kill": nil, "can_move": nil, "food": nil, "age": nil,
	}
	var missing []string

	for _, s := range topo.Shards {
		host, ok := topo.HostFor(s)
		if !ok {
			missing = append(missing, s.ID())
			continue
		}
		hists, err := c.fetchShardStats(ctx, host, s)
		if err != nil {
			missing = append(missing, s.ID())
			continue
		}
		for metric, h := range hists {
			perMetric[metric] = append(perMetric[metric], h)
		}
	}

	merged := make(map[string]colony.Histogram, len(perMetric))
	for metric, hists := range perMetric {
		merged[metric] = colony.MergeHistograms(hists, 20)
	}

	snap := statsSnapshot{
		Timestamp:    time.Now(),
		Rules:        c.Rules(),
		Histograms:   merged,
		RecentEvents: c.ring.Latest(20),
		Meta: snapshotMeta{
			Partial:       len(missing) > 0,
			MissingShards: missing,
		},
	}

	if err := c.writeStatsSnapshotFile(snap); err != nil {
		return snap, err
	}
	return snap, nil
}

func (c *Coordinator) fetchShardStats(ctx context.Context, host interface{ InternalAddr() string }, shard colony.Shard) (map[string]colony.Histogram, error) {
	callCtx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
	defer cancel()
	resp, err := c.Pool.Call(callCtx, host.InternalAddr(), wire.Envelope{
		Kind: wire.KindGetShardStatsRequest, Payload: wire.GetShardStatsRequest{Shard: shard},
	})
	if err != nil {
		return nil, err
	}
	p, ok := resp.Payload.(wire.GetShardStatsResponse)
	if !ok || !p.Available {
		return nil, fmt.Errorf("shard %s stats unavailable", shard.ID())
	}
	return p.Histograms, nil
}

func (c *Coordinator) writeStatsSnapshotFile(snap statsSnapshot) error {
	dir := filepath.Join(c.outputDir, c.InstanceID, "stats")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%d.json", snap.Timestamp.UnixNano())
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), data, 0o644)
}

// RunImageSnapshotLoop stitches every hosted shard's image into one PNG
// every 60s, per §4.9; it also takes a stats snapshot on the same tick.
func (c *Coordinator) RunImageSnapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.takeImageSnapshot(ctx); err != nil {
				c.Log.Errorw("image snapshot failed", "error", err)
			}
			if _, err := c.TakeStatsSnapshot(ctx); err != nil {
				c.Log.Errorw("stats snapshot failed", "error", err)
			}
		}
	}
}

func (c *Coordinator) takeImageSnapshot(ctx context.Context) error {
	topo := c.Topology()
	if topo == nil {
		return fmt.Errorf("coordinator: colony not started")
	}
	width, height := c.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for _, s := range topo.Shards {
		host, ok := topo.HostFor(s)
		if !ok {
			continue
		}
		url := fmt.Sprintf("http://%s/api/shard/%s/image", host.HTTPAddr(), s.ID())
		fetchCtx, cancel := context.WithTimeout(ctx, 1500*time.Millisecond)
		data, err := httpapi.GetBinary(fetchCtx, httpapi.SnapshotClient, url)
		cancel()
		if err != nil {
			c.Log.Debugw("shard image fetch failed, leaving black hole", "shard", s.ID(), "error", err)
			continue
		}
		stampShardPixels(img, s, data)
	}

	dir := filepath.Join(c.outputDir, c.InstanceID, "images")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%d.png", time.Now().UnixNano())
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func stampShardPixels(img *image.RGBA, s colony.Shard, rgb []byte) {
	if len(rgb) != s.Width*s.Height*3 {
		return
	}
	i := 0
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			img.Set(s.X+x, s.Y+y, color.RGBA{R: rgb[i], G: rgb[i+1], B: rgb[i+2], A: 255})
			i += 3
		}
	}
}
