// Package ticket keeps the fields of a manual order form mutually consistent.
// Exactly one field is the edit source per update; every other field is
// derived from it and the currently known price. A per-ticket single-flight
// flag stops a derived write from re-entering the derivation chain, so two
// tickets shown side by side stay fully independent.
package ticket

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Side is the order direction.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// Kind is the order execution type.
type Kind string

const (
	Limit     Kind = "limit"
	StopLimit Kind = "stopLimit"
	Market    Kind = "market"
)

var (
	// ErrInvalidOrderSize is returned when the order amount lies outside
	// [MinOrderSize, MaxOrderSize].
	ErrInvalidOrderSize = errors.New("order size out of range")
	// ErrInvalidTickSize is returned when a price is not an exact multiple of
	// the tick size.
	ErrInvalidTickSize = errors.New("price not a tick multiple")
	// ErrInsufficientBalance is returned when a sell amount exceeds the
	// available base balance.
	ErrInsufficientBalance = errors.New("amount exceeds balance")
	// ErrInvalidInput is returned for negative or out-of-range edits.
	ErrInvalidInput = errors.New("invalid input")
)

// Order size limits in base-token units and the price grid step.
var (
	MinOrderSize = decimal.New(1, -8)
	MaxOrderSize = decimal.NewFromInt(100)
	TickSize     = decimal.New(1, -3)
)

var percentMax = decimal.NewFromInt(100)

// State is a snapshot of the form fields.
type State struct {
	Side          Side            `json:"side"`
	Kind          Kind            `json:"order_kind"`
	Price         decimal.Decimal `json:"price"`
	StopPrice     decimal.Decimal `json:"stop_price"`
	LimitPrice    decimal.Decimal `json:"limit_price"`
	Amount        decimal.Decimal `json:"amount"`
	Total         decimal.Decimal `json:"total"`
	SliderPercent decimal.Decimal `json:"slider_percent"`
}

// Ticket is the live state of one order form. Not safe for concurrent use by
// multiple goroutines; independent tickets need no coordination.
type Ticket struct {
	side    Side
	kind    Kind
	balance decimal.Decimal

	price         decimal.Decimal
	stopPrice     decimal.Decimal
	limitPrice    decimal.Decimal
	amount        decimal.Decimal
	total         decimal.Decimal
	sliderPercent decimal.Decimal

	deriving bool
}

// New builds a ticket. balance is the available quote balance for a buy
// ticket and the available base balance for a sell ticket.
func New(side Side, kind Kind, balance decimal.Decimal) *Ticket {
	return &Ticket{side: side, kind: kind, balance: balance}
}

// State returns a snapshot of the current fields.
func (t *Ticket) State() State {
	return State{
		Side:          t.side,
		Kind:          t.kind,
		Price:         t.price,
		StopPrice:     t.stopPrice,
		LimitPrice:    t.limitPrice,
		Amount:        t.amount,
		Total:         t.total,
		SliderPercent: t.sliderPercent,
	}
}

// SetPrice edits the limit price and re-derives the dependent quantity from
// the side's primary field.
func (t *Ticket) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidInput
	}
	t.price = price
	if t.deriving {
		return nil
	}
	t.deriving = true
	defer t.settle()

	if t.side == Buy {
		t.deriveAmountFromTotal()
	} else {
		t.deriveTotalFromAmount()
	}
	return nil
}

// SetStopPrice edits the stop trigger price. It drives no quantity.
func (t *Ticket) SetStopPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidInput
	}
	t.stopPrice = price
	return nil
}

// SetLimitPrice edits the post-trigger limit price of a stop-limit ticket and
// re-derives the dependent quantity.
func (t *Ticket) SetLimitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrInvalidInput
	}
	t.limitPrice = price
	if t.deriving {
		return nil
	}
	t.deriving = true
	defer t.settle()

	if t.side == Buy {
		t.deriveAmountFromTotal()
	} else {
		t.deriveTotalFromAmount()
	}
	return nil
}

// SetAmount edits the base amount. Total and the slider follow.
func (t *Ticket) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidInput
	}
	t.amount = amount
	if t.deriving {
		return nil
	}
	t.deriving = true
	defer t.settle()

	if t.kind == Market {
		if t.side == Sell {
			t.deriveSlider(t.amount)
		}
		return nil
	}

	t.deriveTotalFromAmount()
	return nil
}

// SetTotal edits the quote total. Amount and the slider follow.
func (t *Ticket) SetTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return ErrInvalidInput
	}
	t.total = total
	if t.deriving {
		return nil
	}
	t.deriving = true
	defer t.settle()

	if t.kind == Market {
		if t.side == Buy {
			t.deriveSlider(t.total)
		}
		return nil
	}

	t.deriveAmountFromTotal()
	return nil
}

// SetSlider edits the balance slider (0-100%). The side's primary quantity is
// set to that fraction of the available balance; the counterpart follows.
func (t *Ticket) SetSlider(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(percentMax) {
		return ErrInvalidInput
	}
	t.sliderPercent = percent
	if t.deriving {
		return nil
	}
	t.deriving = true
	defer t.settle()

	spend := t.balance.Mul(percent).Div(percentMax)
	if t.side == Buy {
		t.total = spend
		t.deriveAmountFromPrice()
	} else {
		t.amount = spend
		t.deriveTotalFromPrice()
	}
	return nil
}

// settle clears the single-flight flag after an update chain finishes.
func (t *Ticket) settle() {
	t.deriving = false
}

func (t *Ticket) effectivePrice() decimal.Decimal {
	if t.kind == StopLimit {
		return t.limitPrice
	}
	return t.price
}

func (t *Ticket) deriveTotalFromAmount() {
	t.deriveTotalFromPrice()
	if t.side == Sell {
		t.deriveSlider(t.amount)
	} else {
		t.deriveSlider(t.total)
	}
}

func (t *Ticket) deriveAmountFromTotal() {
	t.deriveAmountFromPrice()
	if t.side == Buy {
		t.deriveSlider(t.total)
	} else {
		t.deriveSlider(t.amount)
	}
}

func (t *Ticket) deriveTotalFromPrice() {
	price := t.effectivePrice()
	if price.IsZero() {
		return
	}
	t.total = t.amount.Mul(price)
}

func (t *Ticket) deriveAmountFromPrice() {
	price := t.effectivePrice()
	if price.IsZero() {
		return
	}
	t.amount = t.total.Div(price)
}

func (t *Ticket) deriveSlider(primary decimal.Decimal) {
	if t.balance.IsZero() {
		t.sliderPercent = decimal.Zero
		return
	}
	percent := primary.Div(t.balance).Mul(percentMax)
	if percent.GreaterThan(percentMax) {
		percent = percentMax
	}
	t.sliderPercent = percent
}

// Validate checks the ticket before submission. A validation error means the
// order must not be submitted.
func (t *Ticket) Validate() error {
	if t.amount.LessThan(MinOrderSize) || t.amount.GreaterThan(MaxOrderSize) {
		return ErrInvalidOrderSize
	}

	if t.side == Sell && t.amount.GreaterThan(t.balance) {
		return ErrInsufficientBalance
	}

	switch t.kind {
	case Market:
		return nil
	case StopLimit:
		if !tickAligned(t.stopPrice) || !tickAligned(t.limitPrice) {
			return ErrInvalidTickSize
		}
		return nil
	default:
		if !tickAligned(t.price) {
			return ErrInvalidTickSize
		}
		return nil
	}
}

func tickAligned(price decimal.Decimal) bool {
	if price.Sign() <= 0 {
		return false
	}
	return price.Mod(TickSize).IsZero()
}
