package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuningByMode(t *testing.T) {
	local := DefaultTuning(ModeLocalhost)
	assert.Equal(t, 6, local.WidthInShards)
	assert.Equal(t, 4, local.HeightInShards)
	assert.Equal(t, 25, local.TickPeriodMS)

	aws := DefaultTuning(ModeAWS)
	assert.Equal(t, 2, aws.WidthInShards)
	assert.Equal(t, 2, aws.HeightInShards)
	assert.Equal(t, 5, aws.TickPeriodMS)
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	t.Setenv("COLONY_WIDTH_IN_SHARDS", "9")
	tuning, err := Load("", ModeLocalhost)
	require.NoError(t, err)
	assert.Equal(t, 9, tuning.WidthInShards)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := t.TempDir() + "/colony.yaml"
	require.NoError(t, os.WriteFile(path, []byte("shard_side: 100\n"), 0o644))
	tuning, err := Load(path, ModeLocalhost)
	require.NoError(t, err)
	assert.Equal(t, 100, tuning.ShardSide)
}
