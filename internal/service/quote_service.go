package service

import (
	"context"
	"time"

	"crypto-trading-sim/internal/core/domain"
	"crypto-trading-sim/internal/core/ports"
	"crypto-trading-sim/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// QuoteServiceImpl implements ports.PriceOracle with a Redis cache in
// front of the upstream exchange client. Cache failures degrade to a
// direct oracle call; oracle failures surface as ORC errors.
type QuoteServiceImpl struct {
	oracle ports.PriceOracle
	cache  ports.QuoteCache
	ttl    time.Duration
	log    zerolog.Logger
}

// NewQuoteService creates a new QuoteServiceImpl.
func NewQuoteService(oracle ports.PriceOracle, cache ports.QuoteCache, ttl time.Duration, log zerolog.Logger) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		oracle: oracle,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// GetPrice returns the current price for a symbol, serving from cache
// when a fresh quote is present.
func (s *QuoteServiceImpl) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	cached, err := s.cache.Get(ctx, symbol)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("quote cache read failed, falling through to oracle")
	}
	if cached != nil {
		return cached.Price, nil
	}

	price, err := s.oracle.GetPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, apperror.ErrPriceUnavailable(err)
	}

	// Post-process: cache the quote (best-effort)
	quote := &domain.Quote{Symbol: symbol, Price: price}
	if err := s.cache.Set(ctx, quote, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("failed to cache quote")
	}

	return price, nil
}

// Get24hStats returns 24h ticker statistics. Stats are not cached;
// the endpoint serving them is rate limited instead.
func (s *QuoteServiceImpl) Get24hStats(ctx context.Context, symbol string) (*domain.TickerStats, error) {
	stats, err := s.oracle.Get24hStats(ctx, symbol)
	if err != nil {
		return nil, apperror.ErrPriceUnavailable(err)
	}
	return stats, nil
}
