package binance

// tickerPrice is the /api/v3/ticker/price response body.
// Binance serializes numeric fields as strings.
type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// ticker24h is the subset of the /api/v3/ticker/24hr response we use.
type ticker24h struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChange        string `json:"priceChange"`
	PriceChangePercent string `json:"priceChangePercent"`
}

// apiError is Binance's error envelope for non-2xx responses.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
