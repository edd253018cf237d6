// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oracle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

const (
	testWallet = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	testMint   = "HJ2n2a3YK1LTBCRbS932cTtmXw4puhgG8Jb2WcpEpump"
)

var (
	accountA = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	accountB = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

type fakeTokenClient struct {
	accounts    []solana.PublicKey
	balances    map[solana.PublicKey]*rpc.UiTokenAmount
	accountsErr error
	balanceErr  error

	gotMint *solana.PublicKey
}

func (f *fakeTokenClient) GetTokenAccountsByOwner(ctx context.Context, owner solana.PublicKey, conf *rpc.GetTokenAccountsConfig, opts *rpc.GetTokenAccountsOpts) (*rpc.GetTokenAccountsResult, error) {
	if f.accountsErr != nil {
		return nil, f.accountsErr
	}
	f.gotMint = conf.Mint
	out := &rpc.GetTokenAccountsResult{}
	for _, acct := range f.accounts {
		out.Value = append(out.Value, &rpc.TokenAccount{Pubkey: acct})
	}
	return out, nil
}

func (f *fakeTokenClient) GetTokenAccountBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetTokenAccountBalanceResult, error) {
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return &rpc.GetTokenAccountBalanceResult{Value: f.balances[account]}, nil
}

func TestSolana_BalanceOf(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeTokenClient
		want   string
	}{
		{
			name:   "no token accounts",
			client: &fakeTokenClient{},
			want:   "0",
		},
		{
			name: "single account",
			client: &fakeTokenClient{
				accounts: []solana.PublicKey{accountA},
				balances: map[solana.PublicKey]*rpc.UiTokenAmount{
					accountA: {Amount: "150000000000", Decimals: 6, UiAmountString: "150000"},
				},
			},
			want: "150000",
		},
		{
			name: "sums multiple accounts",
			client: &fakeTokenClient{
				accounts: []solana.PublicKey{accountA, accountB},
				balances: map[solana.PublicKey]*rpc.UiTokenAmount{
					accountA: {Amount: "60000500000", Decimals: 6},
					accountB: {Amount: "40000000000", Decimals: 6},
				},
			},
			want: "100000.5",
		},
		{
			name: "falls back to ui amount string",
			client: &fakeTokenClient{
				accounts: []solana.PublicKey{accountA},
				balances: map[solana.PublicKey]*rpc.UiTokenAmount{
					accountA: {UiAmountString: "99999.999999"},
				},
			},
			want: "99999.999999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSolana(tt.client, time.Second)
			got, err := s.BalanceOf(context.Background(), testWallet, testMint)
			if err != nil {
				t.Fatalf("BalanceOf failed: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Expected balance %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSolana_FiltersByMint(t *testing.T) {
	client := &fakeTokenClient{}
	s := newSolana(client, 0)

	if _, err := s.BalanceOf(context.Background(), testWallet, testMint); err != nil {
		t.Fatalf("BalanceOf failed: %v", err)
	}
	if client.gotMint == nil || client.gotMint.String() != testMint {
		t.Errorf("Expected mint filter %s, got %v", testMint, client.gotMint)
	}
}

func TestSolana_InvalidAddress(t *testing.T) {
	s := newSolana(&fakeTokenClient{}, 0)

	for _, addr := range []string{"", "not-base58-0OIl", "abc"} {
		_, err := s.BalanceOf(context.Background(), addr, testMint)
		if !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("BalanceOf(%q): expected ErrInvalidAddress, got %v", addr, err)
		}
	}
}

func TestSolana_InvalidMint(t *testing.T) {
	client := &fakeTokenClient{}
	s := newSolana(client, 0)

	_, err := s.BalanceOf(context.Background(), testWallet, "not-a-mint")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
	if errors.Is(err, ErrInvalidAddress) {
		t.Error("Bad mint should not be reported as a bad wallet address")
	}
	if client.gotMint != nil {
		t.Error("Expected no RPC call with an invalid mint")
	}
}

func TestSolana_ErrorsAreNotZero(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeTokenClient
		want   error
	}{
		{
			name:   "accounts rate limited",
			client: &fakeTokenClient{accountsErr: errors.New("rpc call getTokenAccountsByOwner() status code: 429")},
			want:   ErrRateLimited,
		},
		{
			name:   "accounts forbidden",
			client: &fakeTokenClient{accountsErr: errors.New("status code: 403 Forbidden")},
			want:   ErrRateLimited,
		},
		{
			name:   "connection refused",
			client: &fakeTokenClient{accountsErr: errors.New("dial tcp: connection refused")},
			want:   ErrUnavailable,
		},
		{
			name: "balance lookup fails",
			client: &fakeTokenClient{
				accounts:   []solana.PublicKey{accountA},
				balanceErr: context.DeadlineExceeded,
			},
			want: ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSolana(tt.client, time.Second)
			got, err := s.BalanceOf(context.Background(), testWallet, testMint)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if !got.IsZero() {
				t.Errorf("Expected zero value alongside error, got %s", got)
			}
		})
	}
}

func TestSolana_HTTPRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	s := NewSolana(server.URL, time.Second)
	_, err := s.BalanceOf(context.Background(), testWallet, testMint)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Expected ErrRateLimited, got %v", err)
	}
}

func TestSolana_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	s := NewSolana(server.URL, 50*time.Millisecond)
	_, err := s.BalanceOf(context.Background(), testWallet, testMint)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable on timeout, got %v", err)
	}
}
