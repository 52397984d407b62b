package amm

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"swapEngine/internal/model"
)

func testPool() model.Pool {
	return model.Pool{
		Symbol0:    "AAA",
		Symbol1:    "BBB",
		Reserve0:   big.NewInt(1_000_000_000),
		Reserve1:   big.NewInt(2_000_000_000),
		Precision0: 6,
		Precision1: 6,
		LPSupply:   big.NewInt(1_000_000_000),
		FeeRateBps: 30,
	}
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %s: %v", value, err)
	}
	return parsed
}

func TestQuoteGivenInput(t *testing.T) {
	quote, err := QuoteGivenInput(testPool(), dec(t, "10"), true, dec(t, "0.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// afterFee = 10e6 * 9970 / 10000 = 9_970_000
	// out = 9_970_000 * 2e9 / (1e9 + 9_970_000) = 19_743_160 (floor)
	if got := quote.AmountOut.String(); got != "19.74316" {
		t.Fatalf("amount out = %s, want 19.74316", got)
	}
	if got := quote.MidPrice.String(); got != "2" {
		t.Fatalf("mid price = %s, want 2", got)
	}
	if got := quote.FeePaid.String(); got != "0.03" {
		t.Fatalf("fee paid = %s, want 0.03", got)
	}

	// execution price 1.974316 against mid 2 is roughly 1.28% impact
	if quote.PriceImpactPct.LessThan(dec(t, "1.2")) || quote.PriceImpactPct.GreaterThan(dec(t, "1.3")) {
		t.Fatalf("price impact = %s, want ~1.28", quote.PriceImpactPct)
	}

	wantMin := quote.AmountOut.Mul(dec(t, "0.99")).Truncate(6)
	if !quote.MinimumReceived.Equal(wantMin) {
		t.Fatalf("minimum received = %s, want %s", quote.MinimumReceived, wantMin)
	}
}

func TestQuoteGivenInputZeroCases(t *testing.T) {
	pool := testPool()

	quote, err := QuoteGivenInput(pool, decimal.Zero, true, decimal.Zero)
	if err != nil {
		t.Fatalf("zero amount: %v", err)
	}
	if !quote.Zero() {
		t.Fatalf("zero amount should yield zero quote, got %+v", quote)
	}

	pool.Reserve0 = big.NewInt(0)
	quote, err = QuoteGivenInput(pool, dec(t, "10"), true, decimal.Zero)
	if err != nil {
		t.Fatalf("empty reserve: %v", err)
	}
	if !quote.Zero() {
		t.Fatalf("empty reserve should yield zero quote, got %+v", quote)
	}
}

func TestQuoteGivenInputInvalidFeeRate(t *testing.T) {
	pool := testPool()
	pool.FeeRateBps = 10000
	if _, err := QuoteGivenInput(pool, dec(t, "1"), true, decimal.Zero); !errors.Is(err, ErrInvalidFeeRate) {
		t.Fatalf("expected ErrInvalidFeeRate, got %v", err)
	}

	pool.FeeRateBps = -1
	if _, err := QuoteGivenInput(pool, dec(t, "1"), true, decimal.Zero); !errors.Is(err, ErrInvalidFeeRate) {
		t.Fatalf("expected ErrInvalidFeeRate for negative, got %v", err)
	}
}

func TestQuoteGivenOutputInsufficientLiquidity(t *testing.T) {
	if _, err := QuoteGivenOutput(testPool(), dec(t, "2000"), true, decimal.Zero); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestQuoteInverseConsistency(t *testing.T) {
	pool := testPool()
	forward, err := QuoteGivenInput(pool, dec(t, "10"), true, decimal.Zero)
	if err != nil {
		t.Fatalf("forward quote: %v", err)
	}

	backward, err := QuoteGivenOutput(pool, forward.AmountOut, true, decimal.Zero)
	if err != nil {
		t.Fatalf("backward quote: %v", err)
	}

	diff := backward.AmountIn.Sub(forward.AmountIn).Abs()
	if diff.GreaterThan(dec(t, "0.000001")) {
		t.Fatalf("inverse drift %s exceeds one truncation unit (in=%s back=%s)", diff, forward.AmountIn, backward.AmountIn)
	}
}

func TestQuoteInvariantGrowth(t *testing.T) {
	pool := testPool()
	inputs := []string{"0.000001", "1", "10", "999", "123456.789"}

	for _, input := range inputs {
		quote, err := QuoteGivenInput(pool, dec(t, input), true, decimal.Zero)
		if err != nil {
			t.Fatalf("quote %s: %v", input, err)
		}

		amountInRaw := quote.AmountIn.Shift(6).BigInt()
		amountOutRaw := quote.AmountOut.Shift(6).BigInt()

		before := new(big.Int).Mul(pool.Reserve0, pool.Reserve1)
		after := new(big.Int).Mul(
			new(big.Int).Add(pool.Reserve0, amountInRaw),
			new(big.Int).Sub(pool.Reserve1, amountOutRaw),
		)
		if after.Cmp(before) < 0 {
			t.Fatalf("invariant decreased for input %s: %s < %s", input, after, before)
		}

		if amountOutRaw.Cmp(pool.Reserve1) >= 0 {
			t.Fatalf("amount out %s not strictly below reserve", quote.AmountOut)
		}
	}
}

func TestQuoteNegativeAmountRejected(t *testing.T) {
	if _, err := QuoteGivenInput(testPool(), dec(t, "-1"), true, decimal.Zero); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
