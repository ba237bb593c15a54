package postgres

import (
	"context"
	"fmt"

	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository. The
// transactions table is append-only; there are no update paths.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new transaction record within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_id, type, symbol, amount, price, total, counterparty_wallet_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.WalletID, t.Type, t.Symbol,
		t.Amount, t.Price, t.Total, t.CounterpartyWalletID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByWallet fetches all transactions for a wallet, most recent first.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	query := `SELECT id, wallet_id, type, symbol, amount, price, total, counterparty_wallet_id, created_at
		FROM transactions WHERE wallet_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.WalletID, &t.Type, &t.Symbol,
			&t.Amount, &t.Price, &t.Total, &t.CounterpartyWalletID, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}

// GetStats folds the transaction log into per-type totals for a wallet.
// trading volume sums totals across every type regardless of direction.
func (r *TransactionRepo) GetStats(ctx context.Context, walletID uuid.UUID) (*ports.TransactionStats, error) {
	query := `SELECT
		COALESCE(SUM(total) FILTER (WHERE type = 'BUY'), 0) AS total_bought,
		COALESCE(SUM(total) FILTER (WHERE type = 'SELL'), 0) AS total_sold,
		COALESCE(SUM(total), 0) AS trading_volume,
		COUNT(*) AS transaction_count
		FROM transactions WHERE wallet_id = $1`

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query, walletID).Scan(
		&stats.TotalBought, &stats.TotalSold, &stats.TradingVolume, &stats.TransactionCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}
