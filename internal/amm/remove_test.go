package amm

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"swapEngine/internal/model"
)

func removePool() model.Pool {
	return model.Pool{
		Reserve0:   big.NewInt(500_000),
		Reserve1:   big.NewInt(1_000_000),
		Precision0: 0,
		Precision1: 0,
		LPSupply:   big.NewInt(10_000),
		FeeRateBps: 30,
	}
}

func TestPlanRemovalPartial(t *testing.T) {
	plan, err := PlanRemoval(removePool(), big.NewInt(400), dec(t, "25"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.LPToBurn.String(); got != "100" {
		t.Fatalf("lp to burn = %s, want 100", got)
	}
	if got := plan.Amount0.String(); got != "5000" {
		t.Fatalf("amount0 = %s, want 5000", got)
	}
	if got := plan.Amount1.String(); got != "10000" {
		t.Fatalf("amount1 = %s, want 10000", got)
	}

	if !plan.PoolShareBefore.Equal(dec(t, "0.04")) {
		t.Fatalf("share before = %s, want 0.04", plan.PoolShareBefore)
	}
	if !plan.PoolShareAfter.Equal(dec(t, "0.03")) {
		t.Fatalf("share after = %s, want 0.03", plan.PoolShareAfter)
	}
}

func TestPlanRemovalFull(t *testing.T) {
	plan, err := PlanRemoval(removePool(), big.NewInt(400), hundred, dec(t, "0.01"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.LPToBurn.String(); got != "400" {
		t.Fatalf("lp to burn = %s, want 400", got)
	}
	if !plan.PoolShareAfter.IsZero() {
		t.Fatalf("full removal share after = %s, want exactly 0", plan.PoolShareAfter)
	}
	if got := plan.Amount0Min.String(); got != "19800" {
		t.Fatalf("amount0 min = %s, want 19800", got)
	}
}

func TestPlanRemovalFractionalPercent(t *testing.T) {
	plan, err := PlanRemoval(removePool(), big.NewInt(400), dec(t, "12.5"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := plan.LPToBurn.String(); got != "50" {
		t.Fatalf("lp to burn = %s, want 50", got)
	}
	if got := plan.Amount0.String(); got != "2500" {
		t.Fatalf("amount0 = %s, want 2500", got)
	}
	if got := plan.Amount1.String(); got != "5000" {
		t.Fatalf("amount1 = %s, want 5000", got)
	}

	// floor: 12.3% of 401 LP is 49.323, burned as 49
	plan, err = PlanRemoval(removePool(), big.NewInt(401), dec(t, "12.3"), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := plan.LPToBurn.String(); got != "49" {
		t.Fatalf("lp to burn = %s, want 49", got)
	}
}

func TestPlanRemovalZeroPercentIsNoop(t *testing.T) {
	plan, err := PlanRemoval(removePool(), big.NewInt(400), decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.LPToBurn.Sign() != 0 || !plan.Amount0.IsZero() || !plan.Amount1.IsZero() {
		t.Fatalf("zero percent should yield all-zero plan, got %+v", plan)
	}
}

func TestPlanRemovalNoPosition(t *testing.T) {
	if _, err := PlanRemoval(removePool(), big.NewInt(0), dec(t, "50"), decimal.Zero); !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition, got %v", err)
	}
	if _, err := PlanRemoval(removePool(), nil, dec(t, "50"), decimal.Zero); !errors.Is(err, ErrNoPosition) {
		t.Fatalf("expected ErrNoPosition for nil balance, got %v", err)
	}
}

func TestPlanRemovalInvalidPercent(t *testing.T) {
	if _, err := PlanRemoval(removePool(), big.NewInt(400), dec(t, "101"), decimal.Zero); !errors.Is(err, ErrInvalidPercent) {
		t.Fatalf("expected ErrInvalidPercent, got %v", err)
	}
	if _, err := PlanRemoval(removePool(), big.NewInt(400), dec(t, "-1"), decimal.Zero); !errors.Is(err, ErrInvalidPercent) {
		t.Fatalf("expected ErrInvalidPercent for negative, got %v", err)
	}
}

func TestPlanRemovalConservation(t *testing.T) {
	pool := removePool()

	// Three positions covering the whole supply; full removals must drain
	// the reserves exactly (precision 0, no truncation loss on these splits).
	balances := []*big.Int{big.NewInt(2_500), big.NewInt(2_500), big.NewInt(5_000)}

	total0 := big.NewInt(0)
	total1 := big.NewInt(0)
	for _, balance := range balances {
		plan, err := PlanRemoval(pool, balance, hundred, decimal.Zero)
		if err != nil {
			t.Fatalf("plan removal: %v", err)
		}
		total0.Add(total0, plan.Amount0.BigInt())
		total1.Add(total1, plan.Amount1.BigInt())
	}

	if total0.Cmp(pool.Reserve0) != 0 {
		t.Fatalf("reserve0 conservation: %s != %s", total0, pool.Reserve0)
	}
	if total1.Cmp(pool.Reserve1) != 0 {
		t.Fatalf("reserve1 conservation: %s != %s", total1, pool.Reserve1)
	}
}
