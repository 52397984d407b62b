package config

import (
	"github.com/spf13/pflag"
)

// TradeConfig holds the shared configuration of the quote, deposit, and
// withdraw commands: where the pool snapshot comes from and how much
// slippage the plans tolerate.
type TradeConfig struct {
	RPCURL     string
	Pair       string
	PoolFile   string
	FeeRateBps int
	Slippage   string
	LogLevel   string
}

// LoadTrade merges config file, environment variables, and flags into TradeConfig.
func LoadTrade(cfgFile string, flags *pflag.FlagSet) (TradeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"fee-rate-bps": 30,
		"slippage":     "0.005",
		"log-level":    "info",
	})
	if err != nil {
		return TradeConfig{}, err
	}

	cfg := TradeConfig{
		RPCURL:     v.GetString("rpc"),
		Pair:       v.GetString("pair"),
		PoolFile:   v.GetString("pool-file"),
		FeeRateBps: v.GetInt("fee-rate-bps"),
		Slippage:   v.GetString("slippage"),
		LogLevel:   v.GetString("log-level"),
	}

	return cfg, nil
}
