package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapEngine/internal/amm"
	"swapEngine/internal/chain"
	"swapEngine/internal/config"
	"swapEngine/internal/dex"
	"swapEngine/internal/model"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTrade(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slippage, err := decimal.NewFromString(cfg.Slippage)
	if err != nil {
		return fmt.Errorf("parse slippage: %w", err)
	}

	amountInStr, _ := cmd.Flags().GetString("amount-in")
	amountOutStr, _ := cmd.Flags().GetString("amount-out")
	zeroForOne, _ := cmd.Flags().GetBool("zero-for-one")

	if amountInStr == "" && amountOutStr == "" {
		return fmt.Errorf("one of --amount-in or --amount-out is required")
	}
	if amountInStr != "" && amountOutStr != "" {
		return fmt.Errorf("--amount-in and --amount-out are mutually exclusive")
	}

	pool, err := loadPool(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	var quote model.SwapQuote
	if amountInStr != "" {
		amountIn, err := decimal.NewFromString(amountInStr)
		if err != nil {
			return fmt.Errorf("parse amount-in: %w", err)
		}
		quote, err = amm.QuoteGivenInput(pool, amountIn, zeroForOne, slippage)
		if err != nil {
			return err
		}
	} else {
		amountOut, err := decimal.NewFromString(amountOutStr)
		if err != nil {
			return fmt.Errorf("parse amount-out: %w", err)
		}
		quote, err = amm.QuoteGivenOutput(pool, amountOut, zeroForOne, slippage)
		if err != nil {
			return err
		}
	}

	return printJSON(quote)
}

func runDeposit(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTrade(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slippage, err := decimal.NewFromString(cfg.Slippage)
	if err != nil {
		return fmt.Errorf("parse slippage: %w", err)
	}

	sideStr, _ := cmd.Flags().GetString("side")
	side, err := parseSide(sideStr)
	if err != nil {
		return err
	}

	amountStr, _ := cmd.Flags().GetString("amount")
	if amountStr == "" {
		return fmt.Errorf("--amount is required")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return fmt.Errorf("parse amount: %w", err)
	}

	price0, err := optionalDecimal(cmd, "price0")
	if err != nil {
		return err
	}
	price1, err := optionalDecimal(cmd, "price1")
	if err != nil {
		return err
	}

	pool, err := loadPool(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	plan, err := amm.PlanDeposit(pool, side, amount, price0, price1, slippage)
	if err != nil {
		return err
	}

	return printJSON(plan)
}

func runWithdraw(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadTrade(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	slippage, err := decimal.NewFromString(cfg.Slippage)
	if err != nil {
		return fmt.Errorf("parse slippage: %w", err)
	}

	balanceStr, _ := cmd.Flags().GetString("lp-balance")
	if balanceStr == "" {
		return fmt.Errorf("--lp-balance is required")
	}
	lpBalance, ok := new(big.Int).SetString(balanceStr, 10)
	if !ok {
		return fmt.Errorf("parse lp-balance: invalid integer %q", balanceStr)
	}

	percentStr, _ := cmd.Flags().GetString("percent")
	percent, err := decimal.NewFromString(percentStr)
	if err != nil {
		return fmt.Errorf("parse percent: %w", err)
	}

	pool, err := loadPool(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	plan, err := amm.PlanRemoval(pool, lpBalance, percent, slippage)
	if err != nil {
		return err
	}

	return printJSON(plan)
}

// loadPool resolves a pool snapshot from a local JSON file or from the chain.
func loadPool(ctx context.Context, cfg config.TradeConfig, logger *zap.Logger) (model.Pool, error) {
	if cfg.PoolFile != "" {
		data, err := os.ReadFile(cfg.PoolFile)
		if err != nil {
			return model.Pool{}, fmt.Errorf("read pool file: %w", err)
		}
		var pool model.Pool
		if err := json.Unmarshal(data, &pool); err != nil {
			return model.Pool{}, fmt.Errorf("parse pool file: %w", err)
		}
		if pool.FeeRateBps == 0 {
			pool.FeeRateBps = cfg.FeeRateBps
		}
		return pool, nil
	}

	if cfg.RPCURL == "" || cfg.Pair == "" {
		return model.Pool{}, fmt.Errorf("either --pool-file or --rpc with --pair is required")
	}
	if !common.IsHexAddress(cfg.Pair) {
		return model.Pool{}, fmt.Errorf("invalid pair address: %s", cfg.Pair)
	}
	pair := common.HexToAddress(cfg.Pair)

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return model.Pool{}, fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	meta, err := dex.FetchPairMeta(ctx, chainClient, pair, dex.NewTokenMetaCache(), logger)
	if err != nil {
		return model.Pool{}, fmt.Errorf("fetch pair meta: %w", err)
	}

	pool, err := dex.FetchPoolState(ctx, chainClient, pair, meta, cfg.FeeRateBps, nil)
	if err != nil {
		return model.Pool{}, fmt.Errorf("fetch pool state: %w", err)
	}
	return pool, nil
}

func parseSide(input string) (amm.Side, error) {
	switch input {
	case "token0":
		return amm.Token0, nil
	case "token1":
		return amm.Token1, nil
	default:
		return amm.Token0, fmt.Errorf("invalid side %q (want token0 or token1)", input)
	}
}

func optionalDecimal(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", name, err)
	}
	return parsed, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
