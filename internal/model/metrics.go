package model

import "github.com/shopspring/decimal"

// WindowedMetrics stores aggregated trading metrics for one time window.
type WindowedMetrics struct {
	PoolAddress string          `json:"pool_address,omitempty"`
	WindowHours int             `json:"window_hours"`
	VolumeUSD   decimal.Decimal `json:"volume_usd"`
	FeesUSD     decimal.Decimal `json:"fees_usd"`
	TVLUSD      decimal.Decimal `json:"tvl_usd"`
	APRPct      decimal.Decimal `json:"apr_pct"`
	SwapCount   uint64          `json:"swap_count"`
}
