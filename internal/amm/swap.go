// Package amm prices trades and liquidity changes against constant-product
// pool snapshots. All arithmetic on raw amounts uses big.Int with floor
// division; decimals appear only at the boundary, via fixedpoint.
package amm

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"swapEngine/internal/fixedpoint"
	"swapEngine/internal/model"
)

const bpsDenominator = 10000

var (
	bpsDenom = big.NewInt(bpsDenominator)
	one      = big.NewInt(1)
	hundred  = decimal.NewFromInt(100)
)

// QuoteGivenInput prices a trade of amountIn against the pool. zeroForOne
// selects the direction: true swaps token0 into token1. A zero input or an
// unfunded pool yields a zero quote, not an error.
func QuoteGivenInput(pool model.Pool, amountIn decimal.Decimal, zeroForOne bool, slippage decimal.Decimal) (model.SwapQuote, error) {
	if err := validateFeeRate(pool.FeeRateBps); err != nil {
		return model.SwapQuote{}, err
	}
	if err := validateSlippage(slippage); err != nil {
		return model.SwapQuote{}, err
	}

	reserveIn, reserveOut, precIn, precOut := orient(pool, zeroForOne)

	amountInRaw, err := fixedpoint.ToRaw(amountIn, precIn)
	if err != nil {
		return model.SwapQuote{}, fmt.Errorf("amount in: %w", err)
	}
	if amountInRaw.Sign() == 0 || reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return model.SwapQuote{}, nil
	}

	// amountInAfterFee = amountIn * (10000 - feeBps) / 10000
	afterFee := new(big.Int).Mul(amountInRaw, big.NewInt(int64(bpsDenominator-pool.FeeRateBps)))
	afterFee.Div(afterFee, bpsDenom)
	feePaidRaw := new(big.Int).Sub(amountInRaw, afterFee)

	// amountOut = afterFee * reserveOut / (reserveIn + afterFee)
	numerator := new(big.Int).Mul(afterFee, reserveOut)
	denominator := new(big.Int).Add(reserveIn, afterFee)
	amountOutRaw := numerator.Div(numerator, denominator)

	return buildQuote(quoteInputs{
		amountInRaw:  amountInRaw,
		amountOutRaw: amountOutRaw,
		feePaidRaw:   feePaidRaw,
		reserveIn:    reserveIn,
		reserveOut:   reserveOut,
		precIn:       precIn,
		precOut:      precOut,
		slippage:     slippage,
	})
}

// QuoteGivenOutput prices the input required to receive amountOut, the
// algebraic inverse of QuoteGivenInput. Requesting at least the whole
// reserve fails with ErrInsufficientLiquidity.
func QuoteGivenOutput(pool model.Pool, amountOut decimal.Decimal, zeroForOne bool, slippage decimal.Decimal) (model.SwapQuote, error) {
	if err := validateFeeRate(pool.FeeRateBps); err != nil {
		return model.SwapQuote{}, err
	}
	if err := validateSlippage(slippage); err != nil {
		return model.SwapQuote{}, err
	}

	reserveIn, reserveOut, precIn, precOut := orient(pool, zeroForOne)

	amountOutRaw, err := fixedpoint.ToRaw(amountOut, precOut)
	if err != nil {
		return model.SwapQuote{}, fmt.Errorf("amount out: %w", err)
	}
	if amountOutRaw.Sign() == 0 {
		return model.SwapQuote{}, nil
	}
	if amountOutRaw.Cmp(reserveOut) >= 0 {
		return model.SwapQuote{}, ErrInsufficientLiquidity
	}
	if reserveIn.Sign() == 0 {
		return model.SwapQuote{}, nil
	}

	// amountIn = reserveIn * amountOut * 10000 / ((reserveOut - amountOut) * (10000 - feeBps)) + 1
	// The +1 rounds the required input up so the pool is never underpaid.
	numerator := new(big.Int).Mul(reserveIn, amountOutRaw)
	numerator.Mul(numerator, bpsDenom)
	denominator := new(big.Int).Sub(reserveOut, amountOutRaw)
	denominator.Mul(denominator, big.NewInt(int64(bpsDenominator-pool.FeeRateBps)))
	amountInRaw := numerator.Div(numerator, denominator)
	amountInRaw.Add(amountInRaw, one)

	afterFee := new(big.Int).Mul(amountInRaw, big.NewInt(int64(bpsDenominator-pool.FeeRateBps)))
	afterFee.Div(afterFee, bpsDenom)
	feePaidRaw := new(big.Int).Sub(amountInRaw, afterFee)

	return buildQuote(quoteInputs{
		amountInRaw:  amountInRaw,
		amountOutRaw: amountOutRaw,
		feePaidRaw:   feePaidRaw,
		reserveIn:    reserveIn,
		reserveOut:   reserveOut,
		precIn:       precIn,
		precOut:      precOut,
		slippage:     slippage,
	})
}

type quoteInputs struct {
	amountInRaw  *big.Int
	amountOutRaw *big.Int
	feePaidRaw   *big.Int
	reserveIn    *big.Int
	reserveOut   *big.Int
	precIn       int
	precOut      int
	slippage     decimal.Decimal
}

func buildQuote(in quoteInputs) (model.SwapQuote, error) {
	amountIn, err := fixedpoint.ToDecimal(in.amountInRaw, in.precIn)
	if err != nil {
		return model.SwapQuote{}, err
	}
	amountOut, err := fixedpoint.ToDecimal(in.amountOutRaw, in.precOut)
	if err != nil {
		return model.SwapQuote{}, err
	}
	feePaid, err := fixedpoint.ToDecimal(in.feePaidRaw, in.precIn)
	if err != nil {
		return model.SwapQuote{}, err
	}
	reserveInDec, err := fixedpoint.ToDecimal(in.reserveIn, in.precIn)
	if err != nil {
		return model.SwapQuote{}, err
	}
	reserveOutDec, err := fixedpoint.ToDecimal(in.reserveOut, in.precOut)
	if err != nil {
		return model.SwapQuote{}, err
	}

	midPrice := reserveOutDec.Div(reserveInDec)

	var executionPrice, impact decimal.Decimal
	if !amountIn.IsZero() {
		executionPrice = amountOut.Div(amountIn)
	}
	if !midPrice.IsZero() {
		impact = executionPrice.Sub(midPrice).Abs().Div(midPrice).Mul(hundred)
	}

	minReceived, err := fixedpoint.Floor(amountOut.Mul(decimal.NewFromInt(1).Sub(in.slippage)), in.precOut)
	if err != nil {
		return model.SwapQuote{}, err
	}

	return model.SwapQuote{
		AmountIn:        amountIn,
		AmountOut:       amountOut,
		ExecutionPrice:  executionPrice,
		MidPrice:        midPrice,
		PriceImpactPct:  impact,
		MinimumReceived: minReceived,
		FeePaid:         feePaid,
	}, nil
}

func orient(pool model.Pool, zeroForOne bool) (reserveIn, reserveOut *big.Int, precIn, precOut int) {
	reserve0 := orZero(pool.Reserve0)
	reserve1 := orZero(pool.Reserve1)
	if zeroForOne {
		return reserve0, reserve1, pool.Precision0, pool.Precision1
	}
	return reserve1, reserve0, pool.Precision1, pool.Precision0
}

func orZero(value *big.Int) *big.Int {
	if value == nil {
		return big.NewInt(0)
	}
	return value
}

func validateFeeRate(feeRateBps int) error {
	if feeRateBps < 0 || feeRateBps >= bpsDenominator {
		return ErrInvalidFeeRate
	}
	return nil
}

func validateSlippage(slippage decimal.Decimal) error {
	if slippage.IsNegative() || slippage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return ErrInvalidSlippage
	}
	return nil
}
