package entities

import "github.com/shopspring/decimal"

// Quote is a coin's current market snapshot from the price feed.
// Quotes are ephemeral and never persisted.
type Quote struct {
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change_24h"`
	MarketCap decimal.Decimal `json:"market_cap"`
}

// CurrencyInfo describes one supported display currency
type CurrencyInfo struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
