// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
)

const (
	DefaultCacheSize = 4096
	DefaultCacheTTL  = time.Minute
)

// Cached remembers successful lookups for a short time so that a wallet
// polling the eligibility endpoint does not hit the RPC node on every request.
// Failures are never cached.
type Cached struct {
	next     Oracle
	balances *expirable.LRU[string, decimal.Decimal]
}

func NewCached(next Oracle, size int, ttl time.Duration) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cached{
		next:     next,
		balances: expirable.NewLRU[string, decimal.Decimal](size, nil, ttl),
	}
}

func (c *Cached) BalanceOf(ctx context.Context, address, mint string) (decimal.Decimal, error) {
	key := mint + "/" + address
	if balance, ok := c.balances.Get(key); ok {
		return balance, nil
	}

	balance, err := c.next.BalanceOf(ctx, address, mint)
	if err != nil {
		return decimal.Zero, err
	}
	c.balances.Add(key, balance)
	return balance, nil
}
