package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func testPairMeta() PairMeta {
	return PairMeta{
		Token0:    common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Token1:    common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		Symbol0:   "AAA",
		Symbol1:   "BBB",
		Decimals0: 6,
		Decimals1: 6,
	}
}

func buildSwapLog(t *testing.T, decoder *SwapDecoder, amount0In, amount1In, amount0Out, amount1Out int64) types.Log {
	t.Helper()

	parsed, err := PairABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	data, err := parsed.Events["Swap"].Inputs.NonIndexed().Pack(
		big.NewInt(amount0In),
		big.NewInt(amount1In),
		big.NewInt(amount0Out),
		big.NewInt(amount1Out),
	)
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}

	sender := common.HexToAddress("0x2222222222222222222222222222222222222222")
	return types.Log{
		Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Topics: []common.Hash{
			decoder.Topic0(),
			common.BytesToHash(sender.Bytes()),
			common.BytesToHash(sender.Bytes()),
		},
		Data:        data,
		BlockNumber: 42,
		TxHash:      common.HexToHash("0xdead"),
		Index:       7,
	}
}

func TestDecodeSwapToken0In(t *testing.T) {
	decoder, err := NewSwapDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	log := buildSwapLog(t, decoder, 10_000_000, 0, 0, 19_743_160)
	event, err := decoder.DecodeSwap(log, testPairMeta(), 30, 1_700_000_000)
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}

	if event.TokenInSymbol != "AAA" {
		t.Fatalf("token in = %s, want AAA", event.TokenInSymbol)
	}
	if event.AmountInRaw.String() != "10000000" {
		t.Fatalf("amount in = %s, want 10000000", event.AmountInRaw)
	}
	// fee = 10_000_000 * 30 / 10_000
	if event.FeePaidRaw.String() != "30000" {
		t.Fatalf("fee = %s, want 30000", event.FeePaidRaw)
	}
	if event.TimestampSeconds != 1_700_000_000 || event.BlockNumber != 42 || event.LogIndex != 7 {
		t.Fatalf("provenance mismatch: %+v", event)
	}
}

func TestDecodeSwapToken1In(t *testing.T) {
	decoder, err := NewSwapDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	log := buildSwapLog(t, decoder, 0, 5_000_000, 2_400_000, 0)
	event, err := decoder.DecodeSwap(log, testPairMeta(), 30, 1_700_000_000)
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}

	if event.TokenInSymbol != "BBB" {
		t.Fatalf("token in = %s, want BBB", event.TokenInSymbol)
	}
	if event.AmountInRaw.String() != "5000000" {
		t.Fatalf("amount in = %s, want 5000000", event.AmountInRaw)
	}
}

func TestDecodeSwapRejectsForeignLog(t *testing.T) {
	decoder, err := NewSwapDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	log := buildSwapLog(t, decoder, 1, 0, 0, 1)
	log.Topics[0] = common.HexToHash("0x01")
	if _, err := decoder.DecodeSwap(log, testPairMeta(), 30, 0); err == nil {
		t.Fatalf("expected error for foreign topic0")
	}
}
