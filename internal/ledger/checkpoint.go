package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Checkpoint records fetch progress for one pair. The pair address keys the
// file: progress made on one pair must never be resumed for another.
type Checkpoint struct {
	Pair               string `json:"pair"`
	FeeRateBps         int    `json:"fee_rate_bps"`
	LastProcessedBlock uint64 `json:"last_processed_block"`
	UpdatedAt          string `json:"updated_at"`
}

// CheckpointStore persists the checkpoint of a single pair to disk. Loading
// a checkpoint written for a different pair fails rather than silently
// skipping that pair's blocks.
type CheckpointStore struct {
	path       string
	pair       string
	feeRateBps int
	enabled    bool
}

func NewCheckpointStore(path string, enabled bool, pair common.Address, feeRateBps int) *CheckpointStore {
	return &CheckpointStore{path: path, pair: pair.Hex(), feeRateBps: feeRateBps, enabled: enabled}
}

func (c *CheckpointStore) Load() (Checkpoint, bool, error) {
	if !c.enabled {
		return Checkpoint{}, false, nil
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Checkpoint{}, false, nil
		}
		return Checkpoint{}, false, fmt.Errorf("read checkpoint: %w", err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, false, fmt.Errorf("parse checkpoint: %w", err)
	}

	if !strings.EqualFold(cp.Pair, c.pair) {
		return Checkpoint{}, false, fmt.Errorf("checkpoint %s belongs to pair %s, not %s", c.path, cp.Pair, c.pair)
	}

	return cp, true, nil
}

func (c *CheckpointStore) Save(lastProcessed uint64) error {
	if !c.enabled {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	data, err := json.Marshal(Checkpoint{
		Pair:               c.pair,
		FeeRateBps:         c.feeRateBps,
		LastProcessedBlock: lastProcessed,
		UpdatedAt:          time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	// Write-then-rename keeps a crash from leaving a torn checkpoint.
	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	return nil
}
