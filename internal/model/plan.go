package model

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// LiquidityPlan is the result of planning a deposit into a pool.
type LiquidityPlan struct {
	Amount0    decimal.Decimal `json:"amount0"`
	Amount1    decimal.Decimal `json:"amount1"`
	Amount0Min decimal.Decimal `json:"amount0_min"`
	Amount1Min decimal.Decimal `json:"amount1_min"`

	// PoolShareAfter is the fraction of LP supply the new position will
	// represent. For a first deposit into an empty pool Initial is true and
	// PoolShareAfter is 1.
	PoolShareAfter decimal.Decimal `json:"pool_share_after"`
	Initial        bool            `json:"initial"`

	// Paired is false when the pool is empty and no reference price was
	// available to derive the counterpart side. The caller is setting the
	// initial price; only the given side is populated.
	Paired bool `json:"paired"`
}

// RemovalPlan is the result of planning a withdrawal from a position.
type RemovalPlan struct {
	LPToBurn        *big.Int
	Amount0         decimal.Decimal
	Amount1         decimal.Decimal
	Amount0Min      decimal.Decimal
	Amount1Min      decimal.Decimal
	PoolShareBefore decimal.Decimal
	PoolShareAfter  decimal.Decimal
}

type removalPlanJSON struct {
	LPToBurn        string          `json:"lp_to_burn"`
	Amount0         decimal.Decimal `json:"amount0"`
	Amount1         decimal.Decimal `json:"amount1"`
	Amount0Min      decimal.Decimal `json:"amount0_min"`
	Amount1Min      decimal.Decimal `json:"amount1_min"`
	PoolShareBefore decimal.Decimal `json:"pool_share_before"`
	PoolShareAfter  decimal.Decimal `json:"pool_share_after"`
}

// MarshalJSON encodes the raw LP amount as a decimal string.
func (p RemovalPlan) MarshalJSON() ([]byte, error) {
	return json.Marshal(removalPlanJSON{
		LPToBurn:        bigIntString(p.LPToBurn),
		Amount0:         p.Amount0,
		Amount1:         p.Amount1,
		Amount0Min:      p.Amount0Min,
		Amount1Min:      p.Amount1Min,
		PoolShareBefore: p.PoolShareBefore,
		PoolShareAfter:  p.PoolShareAfter,
	})
}

// UnmarshalJSON decodes a RemovalPlan from JSON.
func (p *RemovalPlan) UnmarshalJSON(data []byte) error {
	var raw removalPlanJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	lpToBurn, err := parseBigInt(raw.LPToBurn)
	if err != nil {
		return fmt.Errorf("lp_to_burn: %w", err)
	}
	*p = RemovalPlan{
		LPToBurn:        lpToBurn,
		Amount0:         raw.Amount0,
		Amount1:         raw.Amount1,
		Amount0Min:      raw.Amount0Min,
		Amount1Min:      raw.Amount1Min,
		PoolShareBefore: raw.PoolShareBefore,
		PoolShareAfter:  raw.PoolShareAfter,
	}
	return nil
}
