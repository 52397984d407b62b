package amm

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"swapEngine/internal/fixedpoint"
	"swapEngine/internal/model"
)

// Side identifies which token of the pair an amount refers to.
type Side int

const (
	Token0 Side = iota
	Token1
)

// depositSafetyBuffer is added on top of the user's slippage tolerance when
// computing deposit minimums. Reserves can move between plan time and
// submission time; the extra 0.5 percentage points keeps an honest plan from
// being rejected on chain.
var depositSafetyBuffer = decimal.New(5, -3)

// PlanDeposit computes the counterpart amount that preserves the pool ratio
// for a deposit of amountGiven on the given side. For an empty pool the ratio
// comes from the external reference prices instead; if either price is
// missing or zero the counterpart is left unset and Paired is false.
func PlanDeposit(pool model.Pool, side Side, amountGiven decimal.Decimal, refPrice0, refPrice1 decimal.Decimal, slippage decimal.Decimal) (model.LiquidityPlan, error) {
	if err := validateSlippage(slippage); err != nil {
		return model.LiquidityPlan{}, err
	}

	precGiven, precOther := pool.Precision0, pool.Precision1
	if side == Token1 {
		precGiven, precOther = pool.Precision1, pool.Precision0
	}

	givenRaw, err := fixedpoint.ToRaw(amountGiven, precGiven)
	if err != nil {
		return model.LiquidityPlan{}, fmt.Errorf("amount given: %w", err)
	}
	given, err := fixedpoint.ToDecimal(givenRaw, precGiven)
	if err != nil {
		return model.LiquidityPlan{}, err
	}

	reserveGiven, reserveOther := orZero(pool.Reserve0), orZero(pool.Reserve1)
	priceGiven, priceOther := refPrice0, refPrice1
	if side == Token1 {
		reserveGiven, reserveOther = reserveOther, reserveGiven
		priceGiven, priceOther = priceOther, priceGiven
	}

	if pool.Empty() || reserveGiven.Sign() == 0 {
		return planInitialDeposit(given, precGiven, precOther, priceGiven, priceOther, side, slippage)
	}

	// amountOther = floor(givenRaw * reserveOther / reserveGiven)
	otherRaw := new(big.Int).Mul(givenRaw, reserveOther)
	otherRaw.Div(otherRaw, reserveGiven)
	other, err := fixedpoint.ToDecimal(otherRaw, precOther)
	if err != nil {
		return model.LiquidityPlan{}, err
	}

	amount0, amount1 := given, other
	amount0Raw, amount1Raw := givenRaw, otherRaw
	if side == Token1 {
		amount0, amount1 = other, given
		amount0Raw, amount1Raw = otherRaw, givenRaw
	}

	amount0Min, err := depositMinimum(amount0, pool.Precision0, slippage)
	if err != nil {
		return model.LiquidityPlan{}, err
	}
	amount1Min, err := depositMinimum(amount1, pool.Precision1, slippage)
	if err != nil {
		return model.LiquidityPlan{}, err
	}

	return model.LiquidityPlan{
		Amount0:        amount0,
		Amount1:        amount1,
		Amount0Min:     amount0Min,
		Amount1Min:     amount1Min,
		PoolShareAfter: shareAfterDeposit(pool, amount0Raw, amount1Raw),
		Paired:         true,
	}, nil
}

func planInitialDeposit(given decimal.Decimal, precGiven, precOther int, priceGiven, priceOther decimal.Decimal, side Side, slippage decimal.Decimal) (model.LiquidityPlan, error) {
	plan := model.LiquidityPlan{
		Initial:        true,
		PoolShareAfter: decimal.NewFromInt(1),
	}

	givenMin, err := depositMinimum(given, precGiven, slippage)
	if err != nil {
		return model.LiquidityPlan{}, err
	}
	if side == Token0 {
		plan.Amount0 = given
		plan.Amount0Min = givenMin
	} else {
		plan.Amount1 = given
		plan.Amount1Min = givenMin
	}

	// Without both reference prices the caller alone is setting the initial
	// price; returning a silent zero counterpart would hide that.
	if priceGiven.Sign() <= 0 || priceOther.Sign() <= 0 {
		return plan, nil
	}

	other, err := fixedpoint.Floor(given.Mul(priceGiven).Div(priceOther), precOther)
	if err != nil {
		return model.LiquidityPlan{}, err
	}
	otherMin, err := depositMinimum(other, precOther, slippage)
	if err != nil {
		return model.LiquidityPlan{}, err
	}
	if side == Token0 {
		plan.Amount1 = other
		plan.Amount1Min = otherMin
	} else {
		plan.Amount0 = other
		plan.Amount0Min = otherMin
	}
	plan.Paired = true

	return plan, nil
}

func depositMinimum(amount decimal.Decimal, precision int, slippage decimal.Decimal) (decimal.Decimal, error) {
	tolerance := slippage.Add(depositSafetyBuffer)
	if tolerance.GreaterThan(decimal.NewFromInt(1)) {
		tolerance = decimal.NewFromInt(1)
	}
	return fixedpoint.Floor(amount.Mul(decimal.NewFromInt(1).Sub(tolerance)), precision)
}

// shareAfterDeposit estimates the LP tokens a deposit mints and the resulting
// pool share. The AMM mints the minimum of the two reserve ratios, which
// protects existing holders from an unbalanced deposit.
func shareAfterDeposit(pool model.Pool, amount0Raw, amount1Raw *big.Int) decimal.Decimal {
	reserve0, reserve1 := orZero(pool.Reserve0), orZero(pool.Reserve1)
	lpSupply := orZero(pool.LPSupply)
	if reserve0.Sign() == 0 || reserve1.Sign() == 0 || lpSupply.Sign() == 0 {
		return decimal.NewFromInt(1)
	}

	minted0 := new(big.Int).Mul(amount0Raw, lpSupply)
	minted0.Div(minted0, reserve0)
	minted1 := new(big.Int).Mul(amount1Raw, lpSupply)
	minted1.Div(minted1, reserve1)

	minted := minted0
	if minted1.Cmp(minted0) < 0 {
		minted = minted1
	}

	mintedDec := decimal.NewFromBigInt(minted, 0)
	supplyAfter := decimal.NewFromBigInt(new(big.Int).Add(lpSupply, minted), 0)
	if supplyAfter.IsZero() {
		return decimal.Zero
	}
	return mintedDec.Div(supplyAfter)
}
