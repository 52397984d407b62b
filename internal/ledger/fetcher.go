// Package ledger pulls swap history for a pair from the chain and
// hands decoded events to a storage sink.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"swapEngine/internal/chain"
	"swapEngine/internal/dex"
	"swapEngine/internal/model"
	"swapEngine/internal/storage"
)

// FetchConfig holds runtime settings for a fetch run.
type FetchConfig struct {
	Pair              common.Address
	FeeRateBps        int
	FromBlock         uint64
	ToBlock           uint64
	BatchSize         uint64
	CheckpointPath    string
	CheckpointEnabled bool
	MaxRetries        int
	RetryBackoff      time.Duration
}

// Fetcher streams Swap logs for a single pair and writes decoded events.
type Fetcher struct {
	cfg        FetchConfig
	chain      *chain.Client
	sink       storage.EventSink
	decoder    *dex.SwapDecoder
	logger     *zap.Logger
	seen       map[string]struct{}
	checkpoint *CheckpointStore
}

// NewFetcher builds a Fetcher with its dependencies.
func NewFetcher(cfg FetchConfig, chainClient *chain.Client, sink storage.EventSink, logger *zap.Logger) (*Fetcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	decoder, err := dex.NewSwapDecoder()
	if err != nil {
		return nil, fmt.Errorf("build swap decoder: %w", err)
	}
	return &Fetcher{
		cfg:        cfg,
		chain:      chainClient,
		sink:       sink,
		decoder:    decoder,
		logger:     logger,
		seen:       make(map[string]struct{}),
		checkpoint: NewCheckpointStore(cfg.CheckpointPath, cfg.CheckpointEnabled, cfg.Pair, cfg.FeeRateBps),
	}, nil
}

// Run executes the fetch loop.
func (f *Fetcher) Run(ctx context.Context) error {
	if f.chain == nil {
		return fmt.Errorf("chain client is nil")
	}
	if f.sink == nil {
		return fmt.Errorf("event sink is nil")
	}
	if f.cfg.BatchSize == 0 {
		return fmt.Errorf("batch size must be greater than zero")
	}
	if f.cfg.Pair == (common.Address{}) {
		return fmt.Errorf("pair address is required")
	}

	tokenCache := dex.NewTokenMetaCache()
	meta, err := dex.FetchPairMeta(ctx, f.chain, f.cfg.Pair, tokenCache, f.logger)
	if err != nil {
		return fmt.Errorf("fetch pair meta: %w", err)
	}
	f.logger.Info("pair resolved",
		zap.String("pair", f.cfg.Pair.Hex()),
		zap.String("symbol0", meta.Symbol0),
		zap.String("symbol1", meta.Symbol1),
	)

	from := f.cfg.FromBlock
	to := f.cfg.ToBlock
	if to == 0 {
		latest, err := f.chain.LatestBlockNumber(ctx)
		if err != nil {
			return fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}

	if f.checkpoint != nil {
		cp, ok, err := f.checkpoint.Load()
		if err != nil {
			return err
		}
		if ok && cp.LastProcessedBlock >= from {
			from = cp.LastProcessedBlock + 1
			f.logger.Info("resume from checkpoint", zap.Uint64("last_processed", cp.LastProcessedBlock), zap.Uint64("from", from))
		}
	}

	if from > to {
		f.logger.Info("nothing to fetch", zap.Uint64("from", from), zap.Uint64("to", to))
		return nil
	}

	ranges, err := SplitRange(from, to, f.cfg.BatchSize)
	if err != nil {
		return err
	}

	addresses := []common.Address{f.cfg.Pair}
	topics := []common.Hash{f.decoder.Topic0()}

	for _, blockRange := range ranges {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f.logger.Info("fetch logs", zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))

		logs, err := f.filterLogsWithRetry(ctx, blockRange.From, blockRange.To, addresses, topics)
		if err != nil {
			return fmt.Errorf("filter logs: %w", err)
		}

		events := make([]model.SwapEvent, 0, len(logs))
		for _, log := range logs {
			if f.isDuplicate(log) {
				continue
			}

			ts, err := f.blockTimestampWithRetry(ctx, log.BlockNumber)
			if err != nil {
				return fmt.Errorf("block timestamp %d: %w", log.BlockNumber, err)
			}

			event, err := f.decoder.DecodeSwap(log, meta, f.cfg.FeeRateBps, ts)
			if err != nil {
				f.logger.Warn("skip undecodable log",
					zap.Error(err),
					zap.Uint64("block_number", log.BlockNumber),
					zap.String("tx_hash", log.TxHash.Hex()),
				)
				continue
			}
			events = append(events, event)
		}

		if err := f.sink.PutEventBatch(events); err != nil {
			return fmt.Errorf("store events: %w", err)
		}

		if f.checkpoint != nil {
			if err := f.checkpoint.Save(blockRange.To); err != nil {
				return err
			}
		}

		f.logger.Info("batch complete", zap.Int("events", len(events)), zap.Uint64("from", blockRange.From), zap.Uint64("to", blockRange.To))
	}

	return nil
}

func (f *Fetcher) filterLogsWithRetry(ctx context.Context, fromBlock, toBlock uint64, addresses []common.Address, topics []common.Hash) ([]types.Log, error) {
	var logs []types.Log
	err := withRetry(ctx, f.cfg.MaxRetries, f.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		logs, err = f.chain.FilterLogs(ctx, fromBlock, toBlock, addresses, topics)
		if err != nil {
			f.logger.Warn("filter logs failed", zap.Error(err), zap.Uint64("from", fromBlock), zap.Uint64("to", toBlock))
		}
		return err
	})
	return logs, err
}

func (f *Fetcher) blockTimestampWithRetry(ctx context.Context, blockNumber uint64) (uint64, error) {
	var ts uint64
	err := withRetry(ctx, f.cfg.MaxRetries, f.cfg.RetryBackoff, func(ctx context.Context) error {
		var err error
		ts, err = f.chain.BlockTimestamp(ctx, blockNumber)
		if err != nil {
			f.logger.Warn("block timestamp fetch failed", zap.Error(err), zap.Uint64("block_number", blockNumber))
		}
		return err
	})
	return ts, err
}

func (f *Fetcher) isDuplicate(log types.Log) bool {
	id := fmt.Sprintf("%d:%s:%d", log.BlockNumber, log.TxHash.Hex(), log.Index)
	if _, ok := f.seen[id]; ok {
		return true
	}
	f.seen[id] = struct{}{}
	return false
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
