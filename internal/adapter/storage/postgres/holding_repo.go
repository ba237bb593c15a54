package postgres

import (
	"context"
	"errors"
	"fmt"

	"crypto-trading-sim/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HoldingRepo implements ports.HoldingRepository.
type HoldingRepo struct {
	pool Pool
}

// NewHoldingRepo creates a new HoldingRepo.
func NewHoldingRepo(pool Pool) *HoldingRepo {
	return &HoldingRepo{pool: pool}
}

// Create inserts a new holding within a database transaction.
func (r *HoldingRepo) Create(ctx context.Context, tx pgx.Tx, h *domain.Holding) error {
	query := `INSERT INTO holdings (id, wallet_id, symbol, amount, avg_buy_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		h.ID, h.WalletID, h.Symbol, h.Amount, h.AvgBuyPrice, h.CreatedAt, h.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert holding: %w", err)
	}
	return nil
}

// GetBySymbol fetches a wallet's holding for one symbol (non-locking read).
func (r *HoldingRepo) GetBySymbol(ctx context.Context, walletID uuid.UUID, symbol string) (*domain.Holding, error) {
	query := `SELECT id, wallet_id, symbol, amount, avg_buy_price, created_at, updated_at
		FROM holdings WHERE wallet_id = $1 AND symbol = $2`
	return r.scanHolding(r.pool.QueryRow(ctx, query, walletID, symbol))
}

// GetBySymbolForUpdate fetches a holding with pessimistic locking.
// This MUST be called within a transaction.
func (r *HoldingRepo) GetBySymbolForUpdate(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, symbol string) (*domain.Holding, error) {
	query := `SELECT id, wallet_id, symbol, amount, avg_buy_price, created_at, updated_at
		FROM holdings WHERE wallet_id = $1 AND symbol = $2 FOR UPDATE`
	return r.scanHolding(tx.QueryRow(ctx, query, walletID, symbol))
}

// ListByWallet fetches all holdings of a wallet ordered by symbol.
func (r *HoldingRepo) ListByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Holding, error) {
	query := `SELECT id, wallet_id, symbol, amount, avg_buy_price, created_at, updated_at
		FROM holdings WHERE wallet_id = $1 ORDER BY symbol`

	rows, err := r.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		h := domain.Holding{}
		err := rows.Scan(&h.ID, &h.WalletID, &h.Symbol, &h.Amount, &h.AvgBuyPrice, &h.CreatedAt, &h.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan holding row: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holding rows: %w", err)
	}
	return holdings, nil
}

// Update persists a holding's amount and cost basis within a transaction.
func (r *HoldingRepo) Update(ctx context.Context, tx pgx.Tx, h *domain.Holding) error {
	query := `UPDATE holdings SET amount = $1, avg_buy_price = $2, updated_at = NOW() WHERE id = $3`

	tag, err := tx.Exec(ctx, query, h.Amount, h.AvgBuyPrice, h.ID)
	if err != nil {
		return fmt.Errorf("update holding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("holding not found: %s", h.ID)
	}
	return nil
}

// Delete removes a depleted holding row within a transaction.
func (r *HoldingRepo) Delete(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM holdings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("holding not found: %s", id)
	}
	return nil
}

func (r *HoldingRepo) scanHolding(row pgx.Row) (*domain.Holding, error) {
	h := &domain.Holding{}
	err := row.Scan(&h.ID, &h.WalletID, &h.Symbol, &h.Amount, &h.AvgBuyPrice, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan holding: %w", err)
	}
	return h, nil
}
