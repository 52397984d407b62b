package model

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// SwapEvent is one executed trade used for analytics. Events are produced by
// the ledger reader and are read-only inputs to the aggregator.
type SwapEvent struct {
	TimestampSeconds int64
	TokenInSymbol    string
	AmountInRaw      *big.Int
	FeePaidRaw       *big.Int

	// Provenance fields set by the ledger fetcher; zero for synthetic events.
	BlockNumber uint64
	TxHash      string
	LogIndex    uint64
}

type swapEventJSON struct {
	TimestampSeconds int64  `json:"timestamp_seconds"`
	TokenInSymbol    string `json:"token_in_symbol"`
	AmountInRaw      string `json:"amount_in_raw"`
	FeePaidRaw       string `json:"fee_paid_raw"`
	BlockNumber      uint64 `json:"block_number,omitempty"`
	TxHash           string `json:"tx_hash,omitempty"`
	LogIndex         uint64 `json:"log_index,omitempty"`
}

// MarshalJSON encodes raw amounts as decimal strings.
func (e SwapEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(swapEventJSON{
		TimestampSeconds: e.TimestampSeconds,
		TokenInSymbol:    e.TokenInSymbol,
		AmountInRaw:      bigIntString(e.AmountInRaw),
		FeePaidRaw:       bigIntString(e.FeePaidRaw),
		BlockNumber:      e.BlockNumber,
		TxHash:           e.TxHash,
		LogIndex:         e.LogIndex,
	})
}

// UnmarshalJSON decodes a SwapEvent from JSON with string raw amounts.
func (e *SwapEvent) UnmarshalJSON(data []byte) error {
	var raw swapEventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	amountIn, err := parseBigInt(raw.AmountInRaw)
	if err != nil {
		return fmt.Errorf("amount_in_raw: %w", err)
	}
	feePaid, err := parseBigInt(raw.FeePaidRaw)
	if err != nil {
		return fmt.Errorf("fee_paid_raw: %w", err)
	}

	*e = SwapEvent{
		TimestampSeconds: raw.TimestampSeconds,
		TokenInSymbol:    raw.TokenInSymbol,
		AmountInRaw:      amountIn,
		FeePaidRaw:       feePaid,
		BlockNumber:      raw.BlockNumber,
		TxHash:           raw.TxHash,
		LogIndex:         raw.LogIndex,
	}
	return nil
}
