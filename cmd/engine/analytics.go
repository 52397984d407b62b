package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapEngine/internal/analytics"
	"swapEngine/internal/chain"
	"swapEngine/internal/config"
	"swapEngine/internal/dex"
	"swapEngine/internal/model"
	"swapEngine/internal/storage"
	"swapEngine/internal/storage/postgres"
)

func runAnalytics(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadAnalytics(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if cfg.Pair == "" {
		return fmt.Errorf("pair address is required")
	}
	if !common.IsHexAddress(cfg.Pair) {
		return fmt.Errorf("invalid pair address: %s", cfg.Pair)
	}
	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	now := time.Now().UTC()
	if cfg.Now != "" {
		ts, err := config.ParseTimestamp(cfg.Now)
		if err != nil {
			return fmt.Errorf("parse now: %w", err)
		}
		now = time.Unix(ts, 0).UTC()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	pair := common.HexToAddress(cfg.Pair)
	meta, err := dex.FetchPairMeta(ctx, chainClient, pair, dex.NewTokenMetaCache(), logger)
	if err != nil {
		return fmt.Errorf("fetch pair meta: %w", err)
	}
	pool, err := dex.FetchPoolState(ctx, chainClient, pair, meta, 0, nil)
	if err != nil {
		return fmt.Errorf("fetch pool state: %w", err)
	}

	lookup, err := buildLookup(pool, cfg.Prices)
	if err != nil {
		return err
	}

	events, err := storage.NewJsonlStorage(cfg.Input).ReadEvents()
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	logger.Info("analytics start",
		zap.String("pair", cfg.Pair),
		zap.Int("events", len(events)),
		zap.Time("now", now),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
	)

	metrics := analytics.Windows(pool, events, now, lookup)

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if err := store.UpsertPool(ctx, pool); err != nil {
			return fmt.Errorf("upsert pool: %w", err)
		}
		if err := store.UpsertWindowMetrics(ctx, metrics); err != nil {
			return fmt.Errorf("upsert window metrics: %w", err)
		}
		logger.Info("metrics persisted", zap.Int("windows", len(metrics)))
	}

	return printJSON(metrics)
}

// buildLookup parses the configured symbol=price pairs into token prices and
// binds them to the pool's precisions.
func buildLookup(pool model.Pool, prices map[string]string) (analytics.TokenLookup, error) {
	quotes := make([]model.TokenPrice, 0, len(prices))
	for symbol, priceStr := range prices {
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("parse price for %s: %w", symbol, err)
		}
		quotes = append(quotes, model.TokenPrice{Symbol: symbol, USD: price})
	}

	return analytics.LookupFromPrices(pool, quotes), nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
