package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,safe_id"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	UserID      string `json:"user_id"`
	WalletID    string `json:"wallet_id"`
	CashBalance string `json:"cash_balance"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// TradeRequest is the request body for buy and sell orders.
// Amounts travel as strings so decimal precision survives JSON.
type TradeRequest struct {
	Symbol string `json:"symbol" binding:"required,max=12,safe_id"`
	Amount string `json:"amount" binding:"required,positive_decimal"`
}

// TransferRequest is the request body for wallet-to-wallet transfers.
type TransferRequest struct {
	ToWalletID string `json:"to_wallet_id" binding:"required,uuid"`
	Symbol     string `json:"symbol" binding:"required,max=12,safe_id"`
	Amount     string `json:"amount" binding:"required,positive_decimal"`
}

// AdjustHoldingRequest is the request body for direct holding
// adjustments with a caller-supplied price.
type AdjustHoldingRequest struct {
	Symbol string `json:"symbol" binding:"required,max=12,safe_id"`
	Amount string `json:"amount" binding:"required,positive_decimal"`
	Price  string `json:"price" binding:"required,positive_decimal"`
	Type   string `json:"type" binding:"required,oneof=BUY SELL"`
}

// HoldingResponse is a holding inside a trade response.
type HoldingResponse struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Amount      string `json:"amount"`
	AvgBuyPrice string `json:"avg_buy_price"`
}

// TransactionResponse is a single transaction log record.
type TransactionResponse struct {
	ID                   string  `json:"id"`
	Type                 string  `json:"type"`
	Symbol               string  `json:"symbol"`
	Amount               string  `json:"amount"`
	Price                *string `json:"price,omitempty"`
	Total                string  `json:"total"`
	CounterpartyWalletID *string `json:"counterparty_wallet_id,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

// TradeResponse is the response body for executed trades.
// Holding is nil when the position was fully liquidated.
type TradeResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	NewCashBalance string              `json:"new_cash_balance"`
	Holding        *HoldingResponse    `json:"holding,omitempty"`
}

// TransactionStatsResponse summarizes a wallet's transaction log.
type TransactionStatsResponse struct {
	TotalBought      string `json:"total_bought"`
	TotalSold        string `json:"total_sold"`
	TradingVolume    string `json:"trading_volume"`
	TransactionCount int64  `json:"transaction_count"`
}

// PriceResponse is the response for a single quote.
type PriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}
