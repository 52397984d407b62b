package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	root := &cobra.Command{
		Use:          "engine",
		Short:        "Constant-product swap math and pool analytics",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against a pool",
		RunE:  runQuote,
	}
	addPoolSourceFlags(quoteCmd)
	quoteCmd.Flags().String("amount-in", "", "exact input amount (decimal)")
	quoteCmd.Flags().String("amount-out", "", "exact output amount (decimal)")
	quoteCmd.Flags().Bool("zero-for-one", true, "swap token0 for token1")
	root.AddCommand(quoteCmd)

	depositCmd := &cobra.Command{
		Use:   "deposit",
		Short: "Plan a paired liquidity deposit",
		RunE:  runDeposit,
	}
	addPoolSourceFlags(depositCmd)
	depositCmd.Flags().String("side", "token0", "which side the amount is given in (token0|token1)")
	depositCmd.Flags().String("amount", "", "deposit amount on the given side (decimal)")
	depositCmd.Flags().String("price0", "", "reference USD price of token0 (for empty pools)")
	depositCmd.Flags().String("price1", "", "reference USD price of token1 (for empty pools)")
	root.AddCommand(depositCmd)

	withdrawCmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Plan a liquidity removal",
		RunE:  runWithdraw,
	}
	addPoolSourceFlags(withdrawCmd)
	withdrawCmd.Flags().String("lp-balance", "", "LP token balance in raw units")
	withdrawCmd.Flags().String("percent", "100", "share of the balance to remove (0-100, fractional allowed)")
	root.AddCommand(withdrawCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch swap history for a pair",
		RunE:  runFetch,
	}
	fetchCmd.Flags().String("rpc", "", "RPC URL")
	fetchCmd.Flags().String("pair", "", "pair contract address")
	fetchCmd.Flags().Int("fee-rate-bps", 30, "pool fee rate in basis points")
	fetchCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	fetchCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means latest")
	fetchCmd.Flags().Uint64("batch-size", 2000, "blocks per batch")
	fetchCmd.Flags().String("out", "./data/swaps.jsonl", "output JSONL path")
	fetchCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	fetchCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	fetchCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	fetchCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	fetchCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(fetchCmd)

	analyticsCmd := &cobra.Command{
		Use:   "analytics",
		Short: "Compute windowed volume, fees, TVL, and APR for a pair",
		RunE:  runAnalytics,
	}
	analyticsCmd.Flags().String("rpc", "", "RPC URL")
	analyticsCmd.Flags().String("pair", "", "pair contract address")
	analyticsCmd.Flags().String("in", "./data/swaps.jsonl", "input swap events JSONL")
	analyticsCmd.Flags().String("prices", "", "token USD prices (comma-separated symbol=price)")
	analyticsCmd.Flags().String("now", "", "reference time (unix seconds or RFC3339), empty means wall clock")
	analyticsCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for persisting metrics")
	analyticsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(analyticsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPoolSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("pair", "", "pair contract address")
	cmd.Flags().String("pool-file", "", "pool snapshot JSON file (alternative to rpc+pair)")
	cmd.Flags().Int("fee-rate-bps", 30, "pool fee rate in basis points")
	cmd.Flags().String("slippage", "0.005", "slippage tolerance as a fraction")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
