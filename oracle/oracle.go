// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAddress = errors.New("invalid wallet address")
	ErrUnavailable    = errors.New("balance lookup unavailable")
	ErrRateLimited    = errors.New("balance lookup rate limited")
)

// Oracle reports how many tokens of mint a wallet holds.
// A failed lookup returns one of the errors above, never a zero balance.
type Oracle interface {
	BalanceOf(ctx context.Context, address, mint string) (decimal.Decimal, error)
}
