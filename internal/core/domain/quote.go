package domain

import "github.com/shopspring/decimal"

// Quote is a point-in-time price for a symbol as reported by the
// upstream exchange.
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// TickerStats carries 24h movement statistics for a symbol.
type TickerStats struct {
	Symbol             string          `json:"symbol"`
	LastPrice          decimal.Decimal `json:"last_price"`
	PriceChange        decimal.Decimal `json:"price_change"`
	PriceChangePercent decimal.Decimal `json:"price_change_percent"`
}
