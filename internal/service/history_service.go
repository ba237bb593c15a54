package service

import (
	"context"
	"fmt"

	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HistoryServiceImpl implements ports.HistoryService over the
// append-only transaction log.
type HistoryServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewHistoryService creates a new HistoryServiceImpl.
func NewHistoryService(walletRepo ports.WalletRepository, txRepo ports.TransactionRepository, log zerolog.Logger) *HistoryServiceImpl {
	return &HistoryServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// GetTransactionsByWallet lists a wallet's transactions, newest first.
func (s *HistoryServiceImpl) GetTransactionsByWallet(ctx context.Context, walletID uuid.UUID) ([]domain.Transaction, error) {
	if err := s.ensureWallet(ctx, walletID); err != nil {
		return nil, err
	}

	txns, err := s.txRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// GetTransactionStats folds a wallet's log into buy/sell/volume totals.
func (s *HistoryServiceImpl) GetTransactionStats(ctx context.Context, walletID uuid.UUID) (*ports.TransactionStats, error) {
	if err := s.ensureWallet(ctx, walletID); err != nil {
		return nil, err
	}

	stats, err := s.txRepo.GetStats(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction stats: %w", err))
	}
	return stats, nil
}

func (s *HistoryServiceImpl) ensureWallet(ctx context.Context, walletID uuid.UUID) error {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return apperror.ErrNotFound("wallet")
	}
	return nil
}
