package model

import "github.com/shopspring/decimal"

// TokenMeta captures ERC20 metadata.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// TokenPrice is a USD quote for one token symbol, supplied by the token
// metadata collaborator.
type TokenPrice struct {
	Symbol string          `json:"symbol"`
	USD    decimal.Decimal `json:"usd"`
}
