package ports

import (
	"context"

	"crypto-trading-sim/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// UserRepository defines persistence operations for user accounts.
// Create accepts a pgx.Tx so the user and its wallet commit atomically.
type UserRepository interface {
	Create(ctx context.Context, tx pgx.Tx, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside transaction blocks; the ForUpdate
// variant takes a pessimistic row lock to serialize mutations per wallet.
type WalletRepository interface {
	Create(ctx context.Context, tx pgx.Tx, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance decimal.Decimal) error
}

// HoldingRepository defines persistence operations for holdings.
// A holding is unique per (wallet, symbol); Delete removes depleted rows.
type HoldingRepository interface {
	Create(ctx context.Context, tx pgx.Tx, holding *domain.Holding) error
	GetBySymbol(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.Holding, error)
	GetBySymbolForUpdate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, symbol string) (*domain.Holding, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Holding, error)
	Update(ctx context.Context, tx pgx.Tx, holding *domain.Holding) error
	Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// TransactionRepository defines persistence for the append-only
// transaction log. Records are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error)
	GetStats(ctx context.Context, walletID uuid.UUID) (*TransactionStats, error)
}

// TransactionStats holds the folded transaction log totals per wallet.
// TradingVolume sums Total across all types regardless of direction.
type TransactionStats struct {
	TotalBought      decimal.Decimal
	TotalSold        decimal.Decimal
	TradingVolume    decimal.Decimal
	TransactionCount int64
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
