// Package analytics folds historical swap events into time-windowed trading
// metrics. Every function is pure: pool state, events, the clock, and the
// token/price lookup all arrive as explicit arguments, so the aggregator can
// be exercised in isolation.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"swapEngine/internal/fixedpoint"
	"swapEngine/internal/model"
)

// Standard reporting windows in hours: one day, seven days, thirty days.
const (
	WindowDay   = 24
	Window7d    = 7 * 24
	Window30d   = 30 * 24
	hoursPerDay = 24
	daysPerYear = 365
)

// TokenQuote is what the token metadata collaborator knows about one symbol.
type TokenQuote struct {
	Precision int
	PriceUSD  decimal.Decimal
}

// TokenLookup resolves a token symbol to its precision and USD price.
// Unknown symbols are skipped by the aggregators.
type TokenLookup func(symbol string) (TokenQuote, bool)

// LookupFromPrices builds a TokenLookup from collaborator-supplied USD
// quotes, taking each symbol's precision from the pool. Prices for symbols
// outside the pair are ignored.
func LookupFromPrices(pool model.Pool, prices []model.TokenPrice) TokenLookup {
	precisions := map[string]int{
		pool.Symbol0: pool.Precision0,
		pool.Symbol1: pool.Precision1,
	}

	quotes := make(map[string]TokenQuote, len(prices))
	for _, price := range prices {
		precision, ok := precisions[price.Symbol]
		if !ok {
			continue
		}
		quotes[price.Symbol] = TokenQuote{Precision: precision, PriceUSD: price.USD}
	}

	return func(symbol string) (TokenQuote, bool) {
		quote, ok := quotes[symbol]
		return quote, ok
	}
}

// Volume sums the USD value of swap inputs within the window ending at now.
func Volume(events []model.SwapEvent, windowHours int, now time.Time, lookup TokenLookup) decimal.Decimal {
	return sumWindow(events, windowHours, now, lookup, func(event model.SwapEvent) decimal.Decimal {
		return decimal.NewFromBigInt(event.AmountInRaw, 0)
	})
}

// Fees sums the USD value of collected trading fees within the window.
func Fees(events []model.SwapEvent, windowHours int, now time.Time, lookup TokenLookup) decimal.Decimal {
	return sumWindow(events, windowHours, now, lookup, func(event model.SwapEvent) decimal.Decimal {
		return decimal.NewFromBigInt(event.FeePaidRaw, 0)
	})
}

// TVL values both reserves of a pool in USD.
func TVL(pool model.Pool, price0, price1 decimal.Decimal) decimal.Decimal {
	reserve0, err := fixedpoint.ToDecimal(pool.Reserve0, pool.Precision0)
	if err != nil {
		return decimal.Zero
	}
	reserve1, err := fixedpoint.ToDecimal(pool.Reserve1, pool.Precision1)
	if err != nil {
		return decimal.Zero
	}
	return reserve0.Mul(price0).Add(reserve1.Mul(price1))
}

// APR projects the yearly fee yield of a pool as a percentage of TVL. The
// seven-day window is preferred; a pool with no fee income over seven days
// falls back to the thirty-day window. An empty pool has no defined yield and
// reports zero.
func APR(pool model.Pool, events []model.SwapEvent, now time.Time, lookup TokenLookup) decimal.Decimal {
	tvl := poolTVL(pool, lookup)
	if tvl.Sign() <= 0 {
		return decimal.Zero
	}

	apr7d := annualize(Fees(events, Window7d, now, lookup), Window7d).Div(tvl).Mul(decimal.NewFromInt(100))
	if apr7d.Sign() > 0 {
		return apr7d
	}
	return annualize(Fees(events, Window30d, now, lookup), Window30d).Div(tvl).Mul(decimal.NewFromInt(100))
}

// Windows computes metrics for the standard 24h/7d/30d windows.
func Windows(pool model.Pool, events []model.SwapEvent, now time.Time, lookup TokenLookup) []model.WindowedMetrics {
	tvl := poolTVL(pool, lookup)
	apr := APR(pool, events, now, lookup)

	metrics := make([]model.WindowedMetrics, 0, 3)
	for _, windowHours := range []int{WindowDay, Window7d, Window30d} {
		metrics = append(metrics, model.WindowedMetrics{
			PoolAddress: pool.Address,
			WindowHours: windowHours,
			VolumeUSD:   Volume(events, windowHours, now, lookup),
			FeesUSD:     Fees(events, windowHours, now, lookup),
			TVLUSD:      tvl,
			APRPct:      apr,
			SwapCount:   countWindow(events, windowHours, now),
		})
	}
	return metrics
}

func sumWindow(events []model.SwapEvent, windowHours int, now time.Time, lookup TokenLookup, rawAmount func(model.SwapEvent) decimal.Decimal) decimal.Decimal {
	cutoff := now.Unix() - int64(windowHours)*3600
	total := decimal.Zero

	for _, event := range events {
		if event.TimestampSeconds < cutoff {
			continue
		}
		quote, ok := lookup(event.TokenInSymbol)
		if !ok {
			continue
		}
		amount := rawAmount(event).Shift(int32(-quote.Precision))
		total = total.Add(amount.Mul(quote.PriceUSD))
	}
	return total
}

func countWindow(events []model.SwapEvent, windowHours int, now time.Time) uint64 {
	cutoff := now.Unix() - int64(windowHours)*3600
	var count uint64
	for _, event := range events {
		if event.TimestampSeconds >= cutoff {
			count++
		}
	}
	return count
}

func poolTVL(pool model.Pool, lookup TokenLookup) decimal.Decimal {
	quote0, ok0 := lookup(pool.Symbol0)
	quote1, ok1 := lookup(pool.Symbol1)
	if !ok0 || !ok1 {
		return decimal.Zero
	}
	return TVL(pool, quote0.PriceUSD, quote1.PriceUSD)
}

// annualize scales fee income collected over windowHours to a full year.
func annualize(fees decimal.Decimal, windowHours int) decimal.Decimal {
	if windowHours <= 0 {
		return decimal.Zero
	}
	windowDays := decimal.NewFromInt(int64(windowHours)).Div(decimal.NewFromInt(hoursPerDay))
	return fees.Div(windowDays).Mul(decimal.NewFromInt(daysPerYear))
}
