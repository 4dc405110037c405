// Package config loads deployment configuration: an optional YAML file
// layered with environment variable overrides, in the same
// getenv(key, default) idiom the coordinator/worker processes already
// use for their fixed CLI arguments.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Mode is the deployment mode, either "localhost" or "aws". It controls
// shard-grid dimensions, tick period, and registry backend selection.
type Mode string

const (
	ModeLocalhost Mode = "localhost"
	ModeAWS       Mode = "aws"
)

// Tuning holds the knobs that vary by deployment mode: shard-grid
// dimensions, shard side length, tick period, and registry base
// directory (localhost only).
type Tuning struct {
	WidthInShards  int `yaml:"width_in_shards"`
	HeightInShards int `yaml:"height_in_shards"`
	ShardSide      int `yaml:"shard_side"`
	TickPeriodMS   int `yaml:"tick_period_ms"`
	RegistryDir    string `yaml:"registry_dir"`
}

// DefaultTuning returns the spec's stated constants for mode: 6x4 shards
// locally / 2x2 in the cloud, 250-cell shard side, 25ms/5ms tick period.
func DefaultTuning(mode Mode) Tuning {
	if mode == ModeAWS {
		return Tuning{WidthInShards: 2, HeightInShards: 2, ShardSide: 250, TickPeriodMS: 5, RegistryDir: ""}
	}
	return Tuning{WidthInShards: 6, HeightInShards: 4, ShardSide: 250, TickPeriodMS: 25, RegistryDir: "output/ssm"}
}

// Load reads an optional YAML file at path (ignored if it does not
// exist) into a Tuning seeded from DefaultTuning(mode), then applies
// environment variable overrides (COLONY_WIDTH_IN_SHARDS,
// COLONY_HEIGHT_IN_SHARDS, COLONY_SHARD_SIDE, COLONY_TICK_PERIOD_MS,
// COLONY_REGISTRY_DIR).
func Load(path string, mode Mode) (Tuning, error) {
	t := DefaultTuning(mode)
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &t); err != nil {
				return Tuning{}, err
			}
		} else if !os.IsNotExist(err) {
			return Tuning{}, err
		}
	}
	t.WidthInShards = getenvInt("COLONY_WIDTH_IN_SHARDS", t.WidthInShards)
	t.HeightInShards = getenvInt("COLONY_HEIGHT_IN_SHARDS", t.HeightInShards)
	t.ShardSide = getenvInt("COLONY_SHARD_SIDE", t.ShardSide)
	t.TickPeriodMS = getenvInt("COLONY_TICK_PERIOD_MS", t.TickPeriodMS)
	t.RegistryDir = getenv("COLONY_REGISTRY_DIR", t.RegistryDir)
	return t, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
