package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-trading-sim/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// QuoteCache implements ports.QuoteCache using Redis. Quotes are short
// lived; the TTL bounds how stale a served price can be.
type QuoteCache struct {
	client *goredis.Client
	prefix string
}

// NewQuoteCache creates a new Redis-backed quote cache.
func NewQuoteCache(client *goredis.Client) *QuoteCache {
	return &QuoteCache{
		client: client,
		prefix: "quote:",
	}
}

// Get retrieves a cached quote by symbol.
// Returns nil, nil if the symbol is not cached.
func (c *QuoteCache) Get(ctx context.Context, symbol string) (*domain.Quote, error) {
	val, err := c.client.Get(ctx, c.prefix+symbol).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis quote get: %w", err)
	}

	quote := &domain.Quote{}
	if err := json.Unmarshal(val, quote); err != nil {
		return nil, fmt.Errorf("unmarshal cached quote: %w", err)
	}
	return quote, nil
}

// Set stores a quote with TTL.
func (c *QuoteCache) Set(ctx context.Context, quote *domain.Quote, ttl time.Duration) error {
	val, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+quote.Symbol, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis quote set: %w", err)
	}
	return nil
}
