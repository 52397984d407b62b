package fixedpoint

import (
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToRawTruncates(t *testing.T) {
	cases := []struct {
		amount    string
		precision int
		want      string
	}{
		{"1", 6, "1000000"},
		{"0.5", 18, "500000000000000000"},
		{"1.9999999", 6, "1999999"},
		{"0.0000001", 6, "0"},
		{"123.456", 0, "123"},
		{"0", 6, "0"},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.amount, err)
		}
		got, err := ToRaw(amount, tc.precision)
		if err != nil {
			t.Fatalf("ToRaw(%s, %d): %v", tc.amount, tc.precision, err)
		}
		if got.String() != tc.want {
			t.Fatalf("ToRaw(%s, %d) = %s, want %s", tc.amount, tc.precision, got, tc.want)
		}
	}
}

func TestToRawRejectsNegativeAmount(t *testing.T) {
	if _, err := ToRaw(decimal.NewFromInt(-1), 6); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestToRawRejectsBadPrecision(t *testing.T) {
	if _, err := ToRaw(decimal.NewFromInt(1), -1); !errors.Is(err, ErrInvalidPrecision) {
		t.Fatalf("expected ErrInvalidPrecision for -1, got %v", err)
	}
	if _, err := ToRaw(decimal.NewFromInt(1), MaxPrecision+1); !errors.Is(err, ErrInvalidPrecision) {
		t.Fatalf("expected ErrInvalidPrecision for %d, got %v", MaxPrecision+1, err)
	}
}

func TestToDecimalInverse(t *testing.T) {
	raw := big.NewInt(1_999_999)
	got, err := ToDecimal(raw, 6)
	if err != nil {
		t.Fatalf("ToDecimal: %v", err)
	}
	if got.String() != "1.999999" {
		t.Fatalf("ToDecimal = %s, want 1.999999", got)
	}

	back, err := ToRaw(got, 6)
	if err != nil {
		t.Fatalf("ToRaw round-trip: %v", err)
	}
	if back.Cmp(raw) != 0 {
		t.Fatalf("round-trip mismatch: %s != %s", back, raw)
	}
}

func TestToDecimalNil(t *testing.T) {
	got, err := ToDecimal(nil, 6)
	if err != nil {
		t.Fatalf("ToDecimal(nil): %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("ToDecimal(nil) = %s, want 0", got)
	}
}

func TestFloor(t *testing.T) {
	amount := decimal.RequireFromString("19.84131999")
	got, err := Floor(amount, 6)
	if err != nil {
		t.Fatalf("Floor: %v", err)
	}
	if got.String() != "19.841319" {
		t.Fatalf("Floor = %s, want 19.841319", got)
	}
}
