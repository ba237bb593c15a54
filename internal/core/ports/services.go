package ports

import (
	"context"
	"time"

	"crypto-trading-sim/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceOracle supplies live quotes from the upstream exchange API.
// Failures of any kind (network, 4xx, 5xx, malformed body) surface as
// a PriceUnavailable error so callers can treat the oracle as a single
// fallible dependency.
type PriceOracle interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	Get24hStats(ctx context.Context, symbol string) (*domain.TickerStats, error)
}

// QuoteCache is the Redis-layer quote cache in front of the oracle.
// Get returns nil, nil on a cache miss.
type QuoteCache interface {
	Get(ctx context.Context, symbol string) (*domain.Quote, error)
	Set(ctx context.Context, quote *domain.Quote, ttl time.Duration) error
}

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID, walletID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims. The wallet ID rides in the
// token so request handlers never need a user -> wallet lookup.
type TokenClaims struct {
	UserID   uuid.UUID
	WalletID uuid.UUID
}

// --- Service Ports (Business Logic) ---

// TradeService is the ledger engine: it enforces wallet solvency and
// holding sufficiency, then mutates cash, holdings, and the transaction
// log as one atomic unit.
type TradeService interface {
	Buy(ctx context.Context, req TradeRequest) (*TradeResult, error)
	Sell(ctx context.Context, req TradeRequest) (*TradeResult, error)
	Transfer(ctx context.Context, req TransferRequest) error
	AdjustHolding(ctx context.Context, req AdjustmentRequest) (*TradeResult, error)
}

// TradeRequest holds validated input for a Buy or Sell at the current
// oracle price.
type TradeRequest struct {
	WalletID uuid.UUID
	Symbol   string
	Amount   decimal.Decimal
}

// AdjustmentRequest is the generalized BUY/SELL entry point used by the
// holdings-management surface: the caller supplies the price.
type AdjustmentRequest struct {
	WalletID uuid.UUID
	Symbol   string
	Amount   decimal.Decimal
	Price    decimal.Decimal
	Type     domain.TransactionType
}

// TransferRequest holds validated input for a wallet-to-wallet asset
// transfer. No cash moves on either side.
type TransferRequest struct {
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	Symbol       string
	Amount       decimal.Decimal
}

// TradeResult reports the committed outcome of a trade. Holding is nil
// when the position was depleted to zero and deleted.
type TradeResult struct {
	Transaction    *domain.Transaction
	NewCashBalance decimal.Decimal
	Holding        *domain.Holding
}

// PortfolioService derives a read-only snapshot of wallet worth from
// stored holdings and fresh oracle quotes. It performs no writes.
type PortfolioService interface {
	GetWalletStats(ctx context.Context, walletID uuid.UUID) (*WalletStats, error)
}

// HoldingStats is the per-position breakdown inside a WalletStats.
// PriceUnavailable is set when the symbol's quote could not be fetched;
// such positions are valued at zero rather than failing the report.
type HoldingStats struct {
	Symbol            string          `json:"symbol"`
	Amount            decimal.Decimal `json:"amount"`
	AvgBuyPrice       decimal.Decimal `json:"avg_buy_price"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	InitialValue      decimal.Decimal `json:"initial_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
	PriceUnavailable  bool            `json:"price_unavailable,omitempty"`
}

// WalletStats aggregates the portfolio snapshot.
type WalletStats struct {
	CashBalance     decimal.Decimal `json:"cash_balance"`
	TotalValue      decimal.Decimal `json:"total_value"`
	TotalProfitLoss decimal.Decimal `json:"total_profit_loss"`
	Holdings        []HoldingStats  `json:"holdings"`
}

// HistoryService lists and summarizes a wallet's transaction log.
type HistoryService interface {
	GetTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
	GetTransactionStats(ctx context.Context, walletID uuid.UUID) (*TransactionStats, error)
}

// AuthService defines registration and login business logic.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// RegisterResult holds the registration outcome, including the wallet
// seeded with starting cash.
type RegisterResult struct {
	UserID      uuid.UUID
	WalletID    uuid.UUID
	CashBalance decimal.Decimal
}
