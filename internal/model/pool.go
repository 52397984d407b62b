package model

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// DefaultFeeRateBps is the trading fee assumed when a pool snapshot does not
// carry its own rate: 30 basis points (0.3%).
const DefaultFeeRateBps = 30

// Pool is a snapshot of one trading pair's on-chain reserve state. It is read
// fresh before every quote and never mutated by the engine.
type Pool struct {
	Address    string
	Symbol0    string
	Symbol1    string
	Reserve0   *big.Int
	Reserve1   *big.Int
	Precision0 int
	Precision1 int
	LPSupply   *big.Int
	FeeRateBps int
}

// Empty reports whether the pool has no minted LP supply and therefore no
// internal price.
func (p Pool) Empty() bool {
	return p.LPSupply == nil || p.LPSupply.Sign() == 0
}

type poolJSON struct {
	Address    string `json:"address,omitempty"`
	Symbol0    string `json:"symbol0"`
	Symbol1    string `json:"symbol1"`
	Reserve0   string `json:"reserve0"`
	Reserve1   string `json:"reserve1"`
	Precision0 int    `json:"precision0"`
	Precision1 int    `json:"precision1"`
	LPSupply   string `json:"lp_supply"`
	FeeRateBps int    `json:"fee_rate_bps"`
}

// MarshalJSON encodes raw reserve integers as decimal strings.
func (p Pool) MarshalJSON() ([]byte, error) {
	return json.Marshal(poolJSON{
		Address:    p.Address,
		Symbol0:    p.Symbol0,
		Symbol1:    p.Symbol1,
		Reserve0:   bigIntString(p.Reserve0),
		Reserve1:   bigIntString(p.Reserve1),
		Precision0: p.Precision0,
		Precision1: p.Precision1,
		LPSupply:   bigIntString(p.LPSupply),
		FeeRateBps: p.FeeRateBps,
	})
}

// UnmarshalJSON decodes a Pool from JSON with string raw amounts.
func (p *Pool) UnmarshalJSON(data []byte) error {
	var raw poolJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	reserve0, err := parseBigInt(raw.Reserve0)
	if err != nil {
		return fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := parseBigInt(raw.Reserve1)
	if err != nil {
		return fmt.Errorf("reserve1: %w", err)
	}
	lpSupply, err := parseBigInt(raw.LPSupply)
	if err != nil {
		return fmt.Errorf("lp_supply: %w", err)
	}

	*p = Pool{
		Address:    raw.Address,
		Symbol0:    raw.Symbol0,
		Symbol1:    raw.Symbol1,
		Reserve0:   reserve0,
		Reserve1:   reserve1,
		Precision0: raw.Precision0,
		Precision1: raw.Precision1,
		LPSupply:   lpSupply,
		FeeRateBps: raw.FeeRateBps,
	}
	return nil
}

func bigIntString(value *big.Int) string {
	if value == nil {
		return "0"
	}
	return value.String()
}

func parseBigInt(value string) (*big.Int, error) {
	if value == "" {
		return big.NewInt(0), nil
	}
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid int: %s", value)
	}
	return parsed, nil
}
