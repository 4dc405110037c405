// Package topography generates the global elevation raster used as
// extra_food_per_tick: a river-path-based field smoothed with repeated
// Laplacian passes, sliced into per-shard byte arrays.
package topography

import (
	"math"
	"math/rand"
)

// Config tunes the generator. Defaults below follow spec.md §4.8.
type Config struct {
	TotalWidth, TotalHeight int
	ShardWidth, ShardHeight int

	BaseElevation        byte
	RiverElevationRange   byte
	RiverInfluenceDistance float64
	RiverCountMin, RiverCountMax   int
	RiverSegmentsMin, RiverSegmentsMax int
	RiverStepMin, RiverStepMax float64
	RiverDirectionChange float64
	SmoothingIterations  int
}

// DefaultConfig returns the spec's stated constants for a colony of the
// given total size. river_segments_range uses (30, 45), per the Open
// Question resolution in SPEC_FULL.md (the (30,4045) figure in one
// original call site is a typo).
func DefaultConfig(totalWidth, totalHeight, shardWidth, shardHeight int) Config {
	return Config{
		TotalWidth: totalWidth, TotalHeight: totalHeight,
		ShardWidth: shardWidth, ShardHeight: shardHeight,
		BaseElevation:          5,
		RiverElevationRange:    45,
		RiverInfluenceDistance: 175,
		RiverCountMin:          10,
		RiverCountMax:          20,
		RiverSegmentsMin:       30,
		RiverSegmentsMax:       45,
		RiverStepMin:           20,
		RiverStepMax:           30,
		RiverDirectionChange:   0.6,
		SmoothingIterations:    4,
	}
}

type riverPath struct {
	points [][2]float64
}

// Generate produces the total_width x total_height elevation raster,
// row-major.
func Generate(cfg Config, rng *rand.Rand) []byte {
	img := make([]byte, cfg.TotalWidth*cfg.TotalHeight)
	for i := range img {
		img[i] = cfg.BaseElevation
	}

	rivers := generateRivers(cfg, rng)

	for y := 0; y < cfg.TotalHeight; y++ {
		for x := 0; x < cfg.TotalWidth; x++ {
			idx := y*cfg.TotalWidth + x
			maxInfluence := 0.0
			for _, r := range rivers {
				d := distanceToRiver(float64(x), float64(y), r)
				if inf := riverInfluence(cfg, d); inf > maxInfluence {
					maxInfluence = inf
				}
			}
			elevation := float64(cfg.BaseElevation) + maxInfluence*float64(cfg.RiverElevationRange)
			img[idx] = clampByte(elevation)
		}
	}

	for i := 0; i < cfg.SmoothingIterations; i++ {
		img = laplacianSmooth(cfg, img)
	}
	return img
}

func generateRivers(cfg Config, rng *rand.Rand) []riverPath {
	n := cfg.RiverCountMin + rng.Intn(cfg.RiverCountMax-cfg.RiverCountMin+1)
	rivers := make([]riverPath, 0, n)
	for i := 0; i < n; i++ {
		rivers = append(rivers, generateSingleRiver(cfg, rng))
	}
	return rivers
}

func generateSingleRiver(cfg Config, rng *rand.Rand) riverPath {
	w, h := float64(cfg.TotalWidth), float64(cfg.TotalHeight)
	var startX, startY float64
	switch rng.Intn(4) {
	case 0:
		startX, startY = rng.Float64()*w, 0
	case 1:
		startX, startY = w, rng.Float64()*h
	case 2:
		startX, startY = rng.Float64()*w, h
	default:
		startX, startY = 0, rng.Float64()*h
	}

	points := [][2]float64{{startX, startY}}
	curX, curY := startX, startY
	direction := rng.Float64() * 2 * math.Pi

	segments := cfg.RiverSegmentsMin + rng.Intn(cfg.RiverSegmentsMax-cfg.RiverSegmentsMin+1)
	for i := 0; i < segments; i++ {
		direction += (rng.Float64()*2 - 1) * cfg.RiverDirectionChange
		step := cfg.RiverStepMin + rng.Float64()*(cfg.RiverStepMax-cfg.RiverStepMin)
		curX += math.Cos(direction) * step
		curY += math.Sin(direction) * step
		curX = clampFloat(curX, 0, w)
		curY = clampFloat(curY, 0, h)
		points = append(points, [2]float64{curX, curY})
		if curX <= 0 || curX >= w || curY <= 0 || curY >= h {
			break
		}
	}
	return riverPath{points: points}
}

func distanceToRiver(x, y float64, r riverPath) float64 {
	minDist := math.Inf(1)
	for i := 0; i+1 < len(r.points); i++ {
		d := distanceToSegment(x, y, r.points[i][0], r.points[i][1], r.points[i+1][0], r.points[i+1][1])
		if d < minDist {
			minDist = d
		}
	}
	return minDist
}

func distanceToSegment(px, py, x1, y1, x2, y2 float64) float64 {
	dx, dy := x2-x1, y2-y1
	if dx == 0 && dy == 0 {
		return math.Hypot(px-x1, py-y1)
	}
	t := ((px-x1)*dx + (py-y1)*dy) / (dx*dx + dy*dy)
	t = clampFloat(t, 0, 1)
	closestX := x1 + t*dx
	closestY := y1 + t*dy
	return math.Hypot(px-closestX, py-closestY)
}

func riverInfluence(cfg Config, distance float64) float64 {
	if distance > cfg.RiverInfluenceDistance {
		return 0
	}
	t := distance / cfg.RiverInfluenceDistance
	influence := (1 - t) * (1 - t)
	return clampFloat(influence, 0, 1)
}

func laplacianSmooth(cfg Config, img []byte) []byte {
	w, h := cfg.TotalWidth, cfg.TotalHeight
	out := make([]byte, len(img))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			current := float64(img[idx])
			sum, count := 0.0, 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					sum += float64(img[ny*w+nx])
					count++
				}
			}
			if count == 0 {
				out[idx] = img[idx]
				continue
			}
			avg := sum / float64(count)
			out[idx] = clampByte(current*0.7 + avg*0.3)
		}
	}
	return out
}

// SliceForShard extracts a shardWidth x shardHeight byte slice for the
// shard at shard-grid coordinates (shardGridX, shardGridY) (not pixel
// coordinates), row-major within the shard.
func SliceForShard(cfg Config, global []byte, shardGridX, shardGridY int) []byte {
	out := make([]byte, 0, cfg.ShardWidth*cfg.ShardHeight)
	startX := shardGridX * cfg.ShardWidth
	startY := shardGridY * cfg.ShardHeight
	for y := 0; y < cfg.ShardHeight; y++ {
		for x := 0; x < cfg.ShardWidth; x++ {
			gx, gy := startX+x, startY+y
			idx := gy*cfg.TotalWidth + gx
			if idx >= 0 && idx < len(global) {
				out = append(out, global[idx])
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(math.Round(v))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
