// Package storage implements the optional per-shard checkpoint file
// helper: a gob-encoded payload followed by an 8-byte little-endian
// FNV-1a checksum trailer. Flipping any single byte of the file makes
// Retrieve return ErrChecksumMismatch instead of silently returning
// corrupt data, per the data-corruption error-handling policy: log,
// refuse to load, continue with a fresh randomized shard.
package storage

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/dreamware/distributed-colony/internal/colony"
)

// ErrChecksumMismatch is returned by Retrieve when the trailing checksum
// does not match the stored payload.
var ErrChecksumMismatch = errors.New("storage: checksum mismatch")

// CheckpointStore persists ColonyShard snapshots as checksummed files
// under BaseDir, keyed by shard id.
type CheckpointStore struct {
	BaseDir string
}

// NewCheckpointStore returns a store rooted at baseDir, creating it if
// necessary.
func NewCheckpointStore(baseDir string) (*CheckpointStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &CheckpointStore{BaseDir: baseDir}, nil
}

func (s *CheckpointStore) path(shardID string) string {
	return filepath.Join(s.BaseDir, shardID+".chk")
}

// checkpointPayload is the gob-serializable snapshot of a ColonyShard;
// it omits the mutex and stores the grid as a flat slice.
type checkpointPayload struct {
	Key         colony.Shard
	Rules       colony.ColonyLifeRules
	CurrentTick uint64
	Grid        []colony.Cell // row-major, (width+2)*(height+2)
}

// Store serializes cs and writes it to disk with a checksum trailer.
// Callers must hold cs.Mu for the duration (one read for snapshot), per
// the concurrency model.
func (s *CheckpointStore) Store(cs *colony.ColonyShard) error {
	payload := checkpointPayload{Key: cs.Key, Rules: cs.Rules, CurrentTick: cs.CurrentTick}
	for _, row := range cs.Grid {
		payload.Grid = append(payload.Grid, row...)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("storage: encode checkpoint: %w", err)
	}

	h := fnv.New64a()
	h.Write(buf.Bytes())
	checksum := h.Sum64()

	out := buf.Bytes()
	var trailer [8]byte
	binary.LittleEndian.PutUint64(trailer[:], checksum)
	out = append(out, trailer[:]...)

	return os.WriteFile(s.path(cs.Key.ID()), out, 0o644)
}

// Retrieve reads and verifies a checkpoint for shardID, rebuilding a
// ColonyShard on success. A missing file returns (nil, false, nil); a
// checksum mismatch or decode error returns ErrChecksumMismatch/err so
// the caller can fall back to a fresh randomized shard.
func (s *CheckpointStore) Retrieve(shardID string) (*colony.ColonyShard, bool, error) {
	data, err := os.ReadFile(s.path(shardID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(data) < 8 {
		return nil, false, ErrChecksumMismatch
	}
	body, trailer := data[:len(data)-8], data[len(data)-8:]
	want := binary.LittleEndian.Uint64(trailer)

	h := fnv.New64a()
	h.Write(body)
	if h.Sum64() != want {
		return nil, false, ErrChecksumMismatch
	}

	var payload checkpointPayload
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("storage: decode checkpoint: %w", err)
	}

	cs := colony.NewColonyShard(payload.Key, payload.Rules)
	cs.CurrentTick = payload.CurrentTick
	rows := payload.Key.Height + 2
	cols := payload.Key.Width + 2
	if len(payload.Grid) != rows*cols {
		return nil, false, ErrChecksumMismatch
	}
	for r := 0; r < rows; r++ {
		copy(cs.Grid[r], payload.Grid[r*cols:(r+1)*cols])
	}
	return cs, true, nil
}
