package amm

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"swapEngine/internal/model"
)

func providePool() model.Pool {
	return model.Pool{
		Reserve0:   big.NewInt(500_000_000),
		Reserve1:   big.NewInt(1_000_000_000),
		Precision0: 6,
		Precision1: 6,
		LPSupply:   big.NewInt(1_000),
		FeeRateBps: 30,
	}
}

func TestPlanDepositRatio(t *testing.T) {
	plan, err := PlanDeposit(providePool(), Token0, dec(t, "10"), decimal.Zero, decimal.Zero, dec(t, "0.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !plan.Paired {
		t.Fatalf("expected paired plan")
	}
	if plan.Initial {
		t.Fatalf("non-empty pool must not be initial")
	}
	if got := plan.Amount1.String(); got != "20" {
		t.Fatalf("amount1 = %s, want 20", got)
	}

	// user slippage 1% plus the 0.5pp safety buffer
	if got := plan.Amount0Min.String(); got != "9.85" {
		t.Fatalf("amount0 min = %s, want 9.85", got)
	}
	if got := plan.Amount1Min.String(); got != "19.7" {
		t.Fatalf("amount1 min = %s, want 19.7", got)
	}

	// minted = min(10e6*1000/5e8, 20e6*1000/1e9) = 20; share = 20/1020
	wantShare := decimal.NewFromInt(20).Div(decimal.NewFromInt(1020))
	if !plan.PoolShareAfter.Equal(wantShare) {
		t.Fatalf("pool share = %s, want %s", plan.PoolShareAfter, wantShare)
	}
}

func TestPlanDepositSymmetry(t *testing.T) {
	pool := providePool()

	fromZero, err := PlanDeposit(pool, Token0, dec(t, "10"), decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("plan from token0: %v", err)
	}
	fromOne, err := PlanDeposit(pool, Token1, fromZero.Amount1, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("plan from token1: %v", err)
	}

	diff := fromOne.Amount0.Sub(fromZero.Amount0).Abs()
	if diff.GreaterThan(dec(t, "0.000001")) {
		t.Fatalf("symmetry drift %s exceeds one truncation unit", diff)
	}
}

func TestPlanDepositEmptyPoolWithPrices(t *testing.T) {
	pool := providePool()
	pool.LPSupply = big.NewInt(0)

	plan, err := PlanDeposit(pool, Token0, dec(t, "10"), dec(t, "5"), dec(t, "1"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !plan.Initial {
		t.Fatalf("expected initial plan for empty pool")
	}
	if got := plan.Amount1.String(); got != "50" {
		t.Fatalf("amount1 = %s, want 50", got)
	}
	if !plan.PoolShareAfter.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("initial pool share = %s, want 1", plan.PoolShareAfter)
	}

	// safety buffer applies even before the pool has reserves
	if got := plan.Amount0Min.String(); got != "9.95" {
		t.Fatalf("amount0 min = %s, want 9.95", got)
	}
	if got := plan.Amount1Min.String(); got != "49.75" {
		t.Fatalf("amount1 min = %s, want 49.75", got)
	}
}

func TestPlanDepositEmptyPoolWithoutPrices(t *testing.T) {
	pool := providePool()
	pool.LPSupply = big.NewInt(0)

	plan, err := PlanDeposit(pool, Token0, dec(t, "10"), decimal.Zero, dec(t, "1"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Paired {
		t.Fatalf("counterpart must stay unset without both reference prices")
	}
	if got := plan.Amount0.String(); got != "10" {
		t.Fatalf("amount0 = %s, want 10", got)
	}
	if !plan.Amount1.IsZero() {
		t.Fatalf("amount1 = %s, want unset", plan.Amount1)
	}
	if got := plan.Amount0Min.String(); got != "9.95" {
		t.Fatalf("amount0 min = %s, want 9.95", got)
	}
	if !plan.Amount1Min.IsZero() {
		t.Fatalf("amount1 min = %s, want unset", plan.Amount1Min)
	}
}

func TestPlanDepositNegativeAmountRejected(t *testing.T) {
	if _, err := PlanDeposit(providePool(), Token0, dec(t, "-1"), decimal.Zero, decimal.Zero, decimal.Zero); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
