// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
)

// ErrInsufficientBalance is returned by Gate.Require when the wallet holds
// less than the minimum.
var ErrInsufficientBalance = errors.New("insufficient token balance")

// Eligibility is the outcome of a balance check
type Eligibility struct {
	Address  string
	Mint     string
	Balance  decimal.Decimal
	Minimum  decimal.Decimal
	Eligible bool
}

// Gate decides whether a wallet may vote. Balance only gates; it never
// weights the vote.
type Gate struct {
	Oracle  Oracle
	Mint    string
	Minimum decimal.Decimal
}

// Check looks up the balance of address and compares it to the minimum
func (g *Gate) Check(ctx context.Context, address string) (Eligibility, error) {
	if address == "" {
		return Eligibility{}, ErrInvalidAddress
	}

	balance, err := g.Oracle.BalanceOf(ctx, address, g.Mint)
	if err != nil {
		slog.Warn("balance lookup failed", "wallet", address, "error", err)
		return Eligibility{}, err
	}

	return Eligibility{
		Address:  address,
		Mint:     g.Mint,
		Balance:  balance,
		Minimum:  g.Minimum,
		Eligible: balance.GreaterThanOrEqual(g.Minimum),
	}, nil
}

// Require is Check that turns a below-minimum balance into ErrInsufficientBalance
func (g *Gate) Require(ctx context.Context, address string) (Eligibility, error) {
	e, err := g.Check(ctx, address)
	if err != nil {
		return e, err
	}
	if !e.Eligible {
		return e, ErrInsufficientBalance
	}
	return e, nil
}
