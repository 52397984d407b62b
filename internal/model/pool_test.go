package model

import (
	"encoding/json"
	"math/big"
	"reflect"
	"strings"
	"testing"
)

func TestPoolJSONRoundTrip(t *testing.T) {
	original := Pool{
		Address:    "0x1111111111111111111111111111111111111111",
		Symbol0:    "AAA",
		Symbol1:    "BBB",
		Reserve0:   big.NewInt(1_000_000_000),
		Reserve1:   big.NewInt(2_000_000_000),
		Precision0: 6,
		Precision1: 6,
		LPSupply:   big.NewInt(10_000),
		FeeRateBps: 30,
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(b), `"reserve0":"1000000000"`) {
		t.Fatalf("reserve not string-encoded: %s", b)
	}

	var decoded Pool
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}

func TestPoolUnmarshalRejectsBadInt(t *testing.T) {
	input := `{"symbol0":"AAA","symbol1":"BBB","reserve0":"not-a-number","reserve1":"1","precision0":6,"precision1":6,"lp_supply":"1","fee_rate_bps":30}`

	var pool Pool
	if err := json.Unmarshal([]byte(input), &pool); err == nil {
		t.Fatalf("expected error for malformed reserve")
	}
}

func TestPoolEmpty(t *testing.T) {
	if !(Pool{}).Empty() {
		t.Fatalf("zero pool should be empty")
	}
	if !(Pool{LPSupply: big.NewInt(0)}).Empty() {
		t.Fatalf("zero supply should be empty")
	}
	if (Pool{LPSupply: big.NewInt(1)}).Empty() {
		t.Fatalf("minted supply should not be empty")
	}
}

func TestSwapEventJSONRoundTrip(t *testing.T) {
	original := SwapEvent{
		TimestampSeconds: 1_700_000_000,
		TokenInSymbol:    "AAA",
		AmountInRaw:      big.NewInt(10_000_000),
		FeePaidRaw:       big.NewInt(30_000),
		BlockNumber:      36_000_000,
		TxHash:           "0xdef456",
		LogIndex:         12,
	}

	b, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded SwapEvent
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round-trip mismatch: %+v != %+v", original, decoded)
	}
}
