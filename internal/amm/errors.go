package amm

import "errors"

var (
	// ErrInvalidFeeRate is returned when a fee rate lies outside [0, 10000) bps.
	ErrInvalidFeeRate = errors.New("fee rate out of range")
	// ErrInsufficientLiquidity is returned when a requested output would meet
	// or exceed the pool's reserve.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	// ErrNoPosition is returned when a removal is planned against a zero LP balance.
	ErrNoPosition = errors.New("no position")
	// ErrInvalidSlippage is returned for slippage tolerances outside [0, 1).
	ErrInvalidSlippage = errors.New("slippage tolerance out of range")
	// ErrInvalidPercent is returned for removal percentages outside [0, 100].
	ErrInvalidPercent = errors.New("percent out of range")
)
