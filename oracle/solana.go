// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/shopspring/decimal"
)

// DefaultTimeout bounds a single BalanceOf call
const DefaultTimeout = 10 * time.Second

var refusedStatus = regexp.MustCompile(`\b(429|403)\b`)

// tokenClient is the subset of *rpc.Client used for balance lookups
type tokenClient interface {
	GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error)
	GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error)
}

// Solana looks up SPL token balances over JSON-RPC
type Solana struct {
	client  tokenClient
	timeout time.Duration
}

// NewSolana creates an oracle backed by the RPC endpoint at endpoint.
// A zero timeout uses DefaultTimeout.
func NewSolana(endpoint string, timeout time.Duration) *Solana {
	return newSolana(rpc.New(endpoint), timeout)
}

func newSolana(client tokenClient, timeout time.Duration) *Solana {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Solana{client: client, timeout: timeout}
}

// BalanceOf sums the balances of every token account owned by address for mint
func (s *Solana) BalanceOf(ctx context.Context, address, mint string) (decimal.Decimal, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid token mint %q: %v", ErrUnavailable, mint, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	accounts, err := s.client.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{Mint: mintKey.ToPointer()},
		&rpc.GetTokenAccountsOpts{
			Commitment: rpc.CommitmentConfirmed,
			Encoding:   solana.EncodingBase64,
		},
	)
	if err != nil {
		return decimal.Zero, classify("get token accounts", err)
	}

	total := decimal.Zero
	if accounts == nil {
		return total, nil
	}
	for _, acct := range accounts.Value {
		if acct == nil {
			continue
		}
		res, err := s.client.GetTokenAccountBalance(ctx, acct.Pubkey, rpc.CommitmentConfirmed)
		if err != nil {
			return decimal.Zero, classify("get token account balance", err)
		}
		if res == nil || res.Value == nil {
			continue
		}
		amount, err := uiAmount(res.Value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: account %s: %v", ErrUnavailable, acct.Pubkey, err)
		}
		total = total.Add(amount)
	}
	return total, nil
}

// uiAmount converts raw base units into whole tokens without going through float64
func uiAmount(v *rpc.UiTokenAmount) (decimal.Decimal, error) {
	if v.Amount != "" {
		raw, err := decimal.NewFromString(v.Amount)
		if err != nil {
			return decimal.Zero, err
		}
		return raw.Shift(-int32(v.Decimals)), nil
	}
	return decimal.NewFromString(v.UiAmountString)
}

// classify maps RPC failures onto the oracle errors. 429 and 403 both mean
// the endpoint is refusing us for now.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusTooManyRequests, http.StatusForbidden:
			return fmt.Errorf("%w: %s: %v", ErrRateLimited, op, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	if refusedStatus.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s: %v", ErrRateLimited, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
