package colony

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardIDRoundTrip(t *testing.T) {
	s := Shard{X: 250, Y: 500, Width: 250, Height: 250}
	id := s.ID()
	assert.Equal(t, "250_500_250_250", id)

	back, err := ShardFromID(id)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestShardFromIDMalformed(t *testing.T) {
	cases := []struct {
		id      string
		wantErr string
	}{
		{"1_2_3", "parts"},
		{"a_2_3_4", "x"},
		{"1_b_3_4", "y"},
		{"1_2_c_4", "width"},
		{"1_2_3_d", "height"},
	}
	for _, tc := range cases {
		_, err := ShardFromID(tc.id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.wantErr)
	}
}

func TestAdjacencyOf(t *testing.T) {
	s := Shard{X: 250, Y: 250, Width: 250, Height: 250}

	above := Shard{X: 250, Y: 0, Width: 250, Height: 250}
	below := Shard{X: 250, Y: 500, Width: 250, Height: 250}
	left := Shard{X: 0, Y: 250, Width: 250, Height: 250}
	right := Shard{X: 500, Y: 250, Width: 250, Height: 250}
	diagonal := Shard{X: 0, Y: 0, Width: 250, Height: 250}
	far := Shard{X: 10000, Y: 10000, Width: 250, Height: 250}

	assert.Equal(t, NeighborAbove, AdjacencyOf(s, above))
	assert.Equal(t, NeighborBelow, AdjacencyOf(s, below))
	assert.Equal(t, NeighborLeft, AdjacencyOf(s, left))
	assert.Equal(t, NeighborRight, AdjacencyOf(s, right))
	assert.Equal(t, NotAdjacent, AdjacencyOf(s, diagonal), "corner contact is not edge adjacency")
	assert.Equal(t, NotAdjacent, AdjacencyOf(s, far))
	assert.False(t, IsAdjacent(s, diagonal))
}

func TestPlacementRoundRobinShare(t *testing.T) {
	// Mirrors the coordinator placement property: every worker gets
	// floor(K/N) or ceil(K/N) shards for any K, N.
	const numShards = 24
	for n := 1; n <= 7; n++ {
		counts := make([]int, n)
		for i := 0; i < numShards; i++ {
			counts[i%n]++
		}
		lo := numShards / n
		hi := (numShards + n - 1) / n
		for _, c := range counts {
			assert.GreaterOrEqual(t, c, lo)
			assert.LessOrEqual(t, c, hi)
		}
	}
}
