package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TradeServiceImpl implements ports.TradeService, the ledger engine.
// Every mutation runs in one database transaction with the affected
// wallet row(s) locked FOR UPDATE, so concurrent trades against the
// same wallet serialize and the cash/holding invariants hold.
type TradeServiceImpl struct {
	walletRepo  ports.WalletRepository
	holdingRepo ports.HoldingRepository
	txRepo      ports.TransactionRepository
	oracle      ports.PriceOracle
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewTradeService creates a new TradeServiceImpl.
func NewTradeService(
	walletRepo ports.WalletRepository,
	holdingRepo ports.HoldingRepository,
	txRepo ports.TransactionRepository,
	oracle ports.PriceOracle,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TradeServiceImpl {
	return &TradeServiceImpl{
		walletRepo:  walletRepo,
		holdingRepo: holdingRepo,
		txRepo:      txRepo,
		oracle:      oracle,
		transactor:  transactor,
		log:         log,
	}
}

// Buy purchases an asset at the current oracle price.
// The quote is fetched before any row lock is taken, so a slow oracle
// never extends lock hold time.
func (s *TradeServiceImpl) Buy(ctx context.Context, req ports.TradeRequest) (*ports.TradeResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	price, err := s.oracle.GetPrice(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	return s.executeBuy(ctx, req.WalletID, req.Symbol, req.Amount, price)
}

// Sell liquidates part or all of a holding at the current oracle price.
func (s *TradeServiceImpl) Sell(ctx context.Context, req ports.TradeRequest) (*ports.TradeResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	price, err := s.oracle.GetPrice(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}

	return s.executeSell(ctx, req.WalletID, req.Symbol, req.Amount, price)
}

// AdjustHolding is the generalized BUY/SELL entry point with a
// caller-supplied price instead of an oracle quote.
func (s *TradeServiceImpl) AdjustHolding(ctx context.Context, req ports.AdjustmentRequest) (*ports.TradeResult, error) {
	if !req.Amount.IsPositive() || !req.Price.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	switch req.Type {
	case domain.TransactionTypeBuy:
		return s.executeBuy(ctx, req.WalletID, req.Symbol, req.Amount, req.Price)
	case domain.TransactionTypeSell:
		return s.executeSell(ctx, req.WalletID, req.Symbol, req.Amount, req.Price)
	default:
		return nil, apperror.Validation("Adjustment type must be BUY or SELL")
	}
}

func (s *TradeServiceImpl) executeBuy(ctx context.Context, walletID uuid.UUID, symbol string, amount, price decimal.Decimal) (*ports.TradeResult, error) {
	cost := amount.Mul(price)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	// Business rule: sufficient cash
	if !wallet.CanAfford(cost) {
		return nil, apperror.ErrInsufficientFunds()
	}

	holding, err := s.holdingRepo.GetBySymbolForUpdate(ctx, dbTx, walletID, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock holding: %w", err))
	}

	now := time.Now().UTC()
	if holding == nil {
		holding = &domain.Holding{
			ID:          uuid.New(),
			WalletID:    walletID,
			Symbol:      symbol,
			Amount:      amount,
			AvgBuyPrice: price,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.holdingRepo.Create(ctx, dbTx, holding); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("create holding: %w", err))
		}
	} else {
		holding.AvgBuyPrice = holding.BlendCostBasis(amount, price)
		holding.Amount = holding.Amount.Add(amount)
		holding.UpdatedAt = now
		if err := s.holdingRepo.Update(ctx, dbTx, holding); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update holding: %w", err))
		}
	}

	newBalance := wallet.CashBalance.Sub(cost)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, walletID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	txn := &domain.Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Type:      domain.TransactionTypeBuy,
		Symbol:    symbol,
		Amount:    amount,
		Price:     &price,
		Total:     cost,
		CreatedAt: now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", walletID.String()).
		Str("symbol", symbol).
		Str("amount", amount.String()).
		Str("price", price.String()).
		Msg("buy executed")

	return &ports.TradeResult{
		Transaction:    txn,
		NewCashBalance: newBalance,
		Holding:        holding,
	}, nil
}

func (s *TradeServiceImpl) executeSell(ctx context.Context, walletID uuid.UUID, symbol string, amount, price decimal.Decimal) (*ports.TradeResult, error) {
	proceeds := amount.Mul(price)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	holding, err := s.holdingRepo.GetBySymbolForUpdate(ctx, dbTx, walletID, symbol)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock holding: %w", err))
	}
	if holding == nil {
		return nil, apperror.ErrNotFound("holding")
	}

	// Business rule: cannot sell more than held
	if amount.GreaterThan(holding.Amount) {
		return nil, apperror.ErrInsufficientHolding()
	}

	now := time.Now().UTC()
	var resultHolding *domain.Holding

	remaining := holding.Amount.Sub(amount)
	if remaining.IsZero() {
		// Depleted positions are deleted, never kept as zero rows
		if err := s.holdingRepo.Delete(ctx, dbTx, holding.ID); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("delete holding: %w", err))
		}
	} else {
		// Selling never changes the average buy price
		holding.Amount = remaining
		holding.UpdatedAt = now
		if err := s.holdingRepo.Update(ctx, dbTx, holding); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("update holding: %w", err))
		}
		resultHolding = holding
	}

	newBalance := wallet.CashBalance.Add(proceeds)
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, walletID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	txn := &domain.Transaction{
		ID:        uuid.New(),
		WalletID:  walletID,
		Type:      domain.TransactionTypeSell,
		Symbol:    symbol,
		Amount:    amount,
		Price:     &price,
		Total:     proceeds,
		CreatedAt: now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", walletID.String()).
		Str("symbol", symbol).
		Str("amount", amount.String()).
		Str("price", price.String()).
		Msg("sell executed")

	return &ports.TradeResult{
		Transaction:    txn,
		NewCashBalance: newBalance,
		Holding:        resultHolding,
	}, nil
}

// Transfer moves asset units between two wallets. No cash moves; the
// destination inherits the source's average buy price for cost basis.
// Both wallet rows are locked in ascending ID order to prevent
// deadlocks between opposing concurrent transfers.
func (s *TradeServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) error {
	if !req.Amount.IsPositive() {
		return apperror.ErrInvalidAmount()
	}
	if req.FromWalletID == req.ToWalletID {
		return apperror.ErrSelfTransfer()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	from, to, err := s.lockWalletPair(ctx, dbTx, req.FromWalletID, req.ToWalletID)
	if err != nil {
		return err
	}

	srcHolding, err := s.holdingRepo.GetBySymbolForUpdate(ctx, dbTx, from.ID, req.Symbol)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock source holding: %w", err))
	}
	if srcHolding == nil {
		return apperror.ErrNotFound("holding")
	}
	if req.Amount.GreaterThan(srcHolding.Amount) {
		return apperror.ErrInsufficientHolding()
	}

	now := time.Now().UTC()
	costBasis := srcHolding.AvgBuyPrice

	remaining := srcHolding.Amount.Sub(req.Amount)
	if remaining.IsZero() {
		if err := s.holdingRepo.Delete(ctx, dbTx, srcHolding.ID); err != nil {
			return apperror.InternalError(fmt.Errorf("delete source holding: %w", err))
		}
	} else {
		srcHolding.Amount = remaining
		srcHolding.UpdatedAt = now
		if err := s.holdingRepo.Update(ctx, dbTx, srcHolding); err != nil {
			return apperror.InternalError(fmt.Errorf("update source holding: %w", err))
		}
	}

	dstHolding, err := s.holdingRepo.GetBySymbolForUpdate(ctx, dbTx, to.ID, req.Symbol)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock destination holding: %w", err))
	}
	if dstHolding == nil {
		dstHolding = &domain.Holding{
			ID:          uuid.New(),
			WalletID:    to.ID,
			Symbol:      req.Symbol,
			Amount:      req.Amount,
			AvgBuyPrice: costBasis,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.holdingRepo.Create(ctx, dbTx, dstHolding); err != nil {
			return apperror.InternalError(fmt.Errorf("create destination holding: %w", err))
		}
	} else {
		dstHolding.AvgBuyPrice = dstHolding.BlendCostBasis(req.Amount, costBasis)
		dstHolding.Amount = dstHolding.Amount.Add(req.Amount)
		dstHolding.UpdatedAt = now
		if err := s.holdingRepo.Update(ctx, dbTx, dstHolding); err != nil {
			return apperror.InternalError(fmt.Errorf("update destination holding: %w", err))
		}
	}

	// Audit: one TRANSFER record on each wallet's log, pointing at the
	// counterparty. Transfers carry no price and a zero total.
	outRecord := &domain.Transaction{
		ID:                   uuid.New(),
		WalletID:             from.ID,
		Type:                 domain.TransactionTypeTransfer,
		Symbol:               req.Symbol,
		Amount:               req.Amount,
		Total:                decimal.Zero,
		CounterpartyWalletID: &to.ID,
		CreatedAt:            now,
	}
	if err := s.txRepo.Create(ctx, dbTx, outRecord); err != nil {
		return apperror.InternalError(fmt.Errorf("create outbound transfer record: %w", err))
	}

	inRecord := &domain.Transaction{
		ID:                   uuid.New(),
		WalletID:             to.ID,
		Type:                 domain.TransactionTypeTransfer,
		Symbol:               req.Symbol,
		Amount:               req.Amount,
		Total:                decimal.Zero,
		CounterpartyWalletID: &from.ID,
		CreatedAt:            now,
	}
	if err := s.txRepo.Create(ctx, dbTx, inRecord); err != nil {
		return apperror.InternalError(fmt.Errorf("create inbound transfer record: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("from_wallet_id", from.ID.String()).
		Str("to_wallet_id", to.ID.String()).
		Str("symbol", req.Symbol).
		Str("amount", req.Amount.String()).
		Msg("transfer executed")

	return nil
}

// lockWalletPair locks both wallets in ascending UUID order and returns
// them as (from, to) regardless of lock order.
func (s *TradeServiceImpl) lockWalletPair(ctx context.Context, dbTx pgx.Tx, fromID, toID uuid.UUID) (*domain.Wallet, *domain.Wallet, error) {
	firstID, secondID := fromID, toID
	if bytes.Compare(toID[:], fromID[:]) < 0 {
		firstID, secondID = toID, fromID
	}

	first, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, firstID)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	second, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, secondID)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}

	wallets := map[uuid.UUID]*domain.Wallet{}
	if first != nil {
		wallets[first.ID] = first
	}
	if second != nil {
		wallets[second.ID] = second
	}

	from, ok := wallets[fromID]
	if !ok {
		return nil, nil, apperror.ErrNotFound("source wallet")
	}
	to, ok := wallets[toID]
	if !ok {
		return nil, nil, apperror.ErrNotFound("destination wallet")
	}
	return from, to, nil
}
