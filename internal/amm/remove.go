package amm

import (
	"math/big"

	"github.com/shopspring/decimal"

	"swapEngine/internal/fixedpoint"
	"swapEngine/internal/model"
)

// PlanRemoval computes the proportional underlying amounts for burning
// removalPercent of the caller's LP balance, with slippage-adjusted minimums.
// The percent may be fractional (e.g. 12.5). A zero balance fails with
// ErrNoPosition; a zero percent yields an all-zero plan, which callers treat
// as a no-op.
func PlanRemoval(pool model.Pool, lpBalance *big.Int, removalPercent decimal.Decimal, slippage decimal.Decimal) (model.RemovalPlan, error) {
	if err := validateSlippage(slippage); err != nil {
		return model.RemovalPlan{}, err
	}
	if removalPercent.IsNegative() || removalPercent.GreaterThan(hundred) {
		return model.RemovalPlan{}, ErrInvalidPercent
	}

	lpSupply := orZero(pool.LPSupply)
	if lpBalance == nil || lpBalance.Sign() == 0 || lpSupply.Sign() == 0 {
		return model.RemovalPlan{}, ErrNoPosition
	}

	// lpToBurn = floor(lpBalance * percent / 100). Shift keeps the division
	// by 100 exact for fractional percents.
	lpToBurn := decimal.NewFromBigInt(lpBalance, 0).Mul(removalPercent.Shift(-2)).Floor().BigInt()

	amount0Raw := new(big.Int).Mul(lpToBurn, orZero(pool.Reserve0))
	amount0Raw.Div(amount0Raw, lpSupply)
	amount1Raw := new(big.Int).Mul(lpToBurn, orZero(pool.Reserve1))
	amount1Raw.Div(amount1Raw, lpSupply)

	amount0, err := fixedpoint.ToDecimal(amount0Raw, pool.Precision0)
	if err != nil {
		return model.RemovalPlan{}, err
	}
	amount1, err := fixedpoint.ToDecimal(amount1Raw, pool.Precision1)
	if err != nil {
		return model.RemovalPlan{}, err
	}

	keep := decimal.NewFromInt(1).Sub(slippage)
	amount0Min, err := fixedpoint.Floor(amount0.Mul(keep), pool.Precision0)
	if err != nil {
		return model.RemovalPlan{}, err
	}
	amount1Min, err := fixedpoint.Floor(amount1.Mul(keep), pool.Precision1)
	if err != nil {
		return model.RemovalPlan{}, err
	}

	supplyDec := decimal.NewFromBigInt(lpSupply, 0)
	shareBefore := decimal.NewFromBigInt(lpBalance, 0).Div(supplyDec)

	// Report a full withdrawal as exactly zero rather than a truncation
	// artifact near zero.
	shareAfter := decimal.Zero
	if !removalPercent.Equal(hundred) {
		remaining := new(big.Int).Sub(lpBalance, lpToBurn)
		shareAfter = decimal.NewFromBigInt(remaining, 0).Div(supplyDec)
	}

	return model.RemovalPlan{
		LPToBurn:        lpToBurn,
		Amount0:         amount0,
		Amount1:         amount1,
		Amount0Min:      amount0Min,
		Amount1Min:      amount1Min,
		PoolShareBefore: shareBefore,
		PoolShareAfter:  shareAfter,
	}, nil
}
