package dex

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"swapEngine/internal/model"
)

const bpsDenominator = 10_000

// SwapDecoder turns V2 pair Swap logs into swap events for analytics.
type SwapDecoder struct {
	pairABI abi.ABI
	topic0  common.Hash
}

// NewSwapDecoder builds a decoder from the pair ABI.
func NewSwapDecoder() (*SwapDecoder, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, err
	}
	return &SwapDecoder{
		pairABI: parsed,
		topic0:  parsed.Events["Swap"].ID,
	}, nil
}

// Topic0 returns the Swap event signature hash for log filtering.
func (d *SwapDecoder) Topic0() common.Hash {
	return d.topic0
}

// DecodeSwap extracts the input side of a Swap log. The trading fee is
// reconstructed from the pair's fee rate since V2 pairs do not emit it.
func (d *SwapDecoder) DecodeSwap(log types.Log, meta PairMeta, feeRateBps int, timestamp uint64) (model.SwapEvent, error) {
	if len(log.Topics) == 0 || log.Topics[0] != d.topic0 {
		return model.SwapEvent{}, fmt.Errorf("not a swap log")
	}

	values, err := d.pairABI.Unpack("Swap", log.Data)
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("unpack swap: %w", err)
	}
	if len(values) != 4 {
		return model.SwapEvent{}, fmt.Errorf("swap data has %d values", len(values))
	}

	amount0In, err := asBigInt(values[0])
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("amount0In: %w", err)
	}
	amount1In, err := asBigInt(values[1])
	if err != nil {
		return model.SwapEvent{}, fmt.Errorf("amount1In: %w", err)
	}

	// The input token is the side with the larger inflow; both can be
	// non-zero for fee-on-transfer tokens.
	amountIn, symbol := amount0In, meta.Symbol0
	if amount1In.Cmp(amount0In) > 0 {
		amountIn, symbol = amount1In, meta.Symbol1
	}
	if amountIn.Sign() == 0 {
		return model.SwapEvent{}, fmt.Errorf("swap log with zero input")
	}

	if feeRateBps == 0 {
		feeRateBps = model.DefaultFeeRateBps
	}
	feePaid := new(big.Int).Mul(amountIn, big.NewInt(int64(feeRateBps)))
	feePaid.Div(feePaid, big.NewInt(bpsDenominator))

	return model.SwapEvent{
		TimestampSeconds: int64(timestamp),
		TokenInSymbol:    symbol,
		AmountInRaw:      amountIn,
		FeePaidRaw:       feePaid,
		BlockNumber:      log.BlockNumber,
		TxHash:           log.TxHash.Hex(),
		LogIndex:         uint64(log.Index),
	}, nil
}
