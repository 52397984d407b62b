package model

import "github.com/shopspring/decimal"

// SwapQuote is the result of pricing a trade against a pool snapshot.
// All amounts are human decimals; FeePaid is denominated in the input token.
type SwapQuote struct {
	AmountIn        decimal.Decimal `json:"amount_in"`
	AmountOut       decimal.Decimal `json:"amount_out"`
	ExecutionPrice  decimal.Decimal `json:"execution_price"`
	MidPrice        decimal.Decimal `json:"mid_price"`
	PriceImpactPct  decimal.Decimal `json:"price_impact_pct"`
	MinimumReceived decimal.Decimal `json:"minimum_received"`
	FeePaid         decimal.Decimal `json:"fee_paid"`
}

// Zero reports whether the quote carries no tradeable amounts, the
// well-defined result for empty or unfunded pools.
func (q SwapQuote) Zero() bool {
	return q.AmountIn.IsZero() && q.AmountOut.IsZero()
}
