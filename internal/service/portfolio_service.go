package service

import (
	"context"
	"fmt"

	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentQuotes bounds parallel oracle calls per stats request.
const maxConcurrentQuotes = 8

var hundred = decimal.NewFromInt(100)

// PortfolioServiceImpl implements ports.PortfolioService. It is a pure
// read model: stored holdings joined with live quotes, no writes.
type PortfolioServiceImpl struct {
	walletRepo  ports.WalletRepository
	holdingRepo ports.HoldingRepository
	oracle      ports.PriceOracle
	log         zerolog.Logger
}

// NewPortfolioService creates a new PortfolioServiceImpl.
func NewPortfolioService(
	walletRepo ports.WalletRepository,
	holdingRepo ports.HoldingRepository,
	oracle ports.PriceOracle,
	log zerolog.Logger,
) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{
		walletRepo:  walletRepo,
		holdingRepo: holdingRepo,
		oracle:      oracle,
		log:         log,
	}
}

// GetWalletStats values every holding at the current oracle price and
// aggregates market value and profit/loss across the positions, with
// the cash balance reported alongside. Quotes are fetched
// concurrently; a symbol whose quote fails is reported with a zero
// price and the PriceUnavailable flag rather than failing the whole
// snapshot, and such positions contribute nothing to the totals.
func (s *PortfolioServiceImpl) GetWalletStats(ctx context.Context, walletID uuid.UUID) (*ports.WalletStats, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}

	holdings, err := s.holdingRepo.ListByWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list holdings: %w", err))
	}

	// TotalValue covers holdings only; cash is reported separately.
	stats := &ports.WalletStats{
		CashBalance:     wallet.CashBalance,
		TotalValue:      decimal.Zero,
		TotalProfitLoss: decimal.Zero,
		Holdings:        make([]ports.HoldingStats, len(holdings)),
	}
	if len(holdings) == 0 {
		return stats, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentQuotes)

	for i := range holdings {
		g.Go(func() error {
			h := holdings[i]
			entry := ports.HoldingStats{
				Symbol:      h.Symbol,
				Amount:      h.Amount,
				AvgBuyPrice: h.AvgBuyPrice,
			}

			price, err := s.oracle.GetPrice(gctx, h.Symbol)
			if err != nil {
				s.log.Warn().Err(err).Str("symbol", h.Symbol).Msg("quote failed, reporting holding unpriced")
				entry.PriceUnavailable = true
				stats.Holdings[i] = entry
				return nil
			}

			entry.CurrentPrice = price
			entry.CurrentValue = h.Amount.Mul(price)
			entry.InitialValue = h.Amount.Mul(h.AvgBuyPrice)
			entry.ProfitLoss = entry.CurrentValue.Sub(entry.InitialValue)
			if !entry.InitialValue.IsZero() {
				entry.ProfitLossPercent = entry.ProfitLoss.Div(entry.InitialValue).Mul(hundred)
			}

			stats.Holdings[i] = entry
			return nil
		})
	}

	// Goroutines never return errors; Wait only propagates ctx cancellation.
	if err := g.Wait(); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("fetch quotes: %w", err))
	}

	for i := range stats.Holdings {
		entry := stats.Holdings[i]
		if entry.PriceUnavailable {
			continue
		}
		stats.TotalValue = stats.TotalValue.Add(entry.CurrentValue)
		stats.TotalProfitLoss = stats.TotalProfitLoss.Add(entry.ProfitLoss)
	}

	return stats, nil
}
