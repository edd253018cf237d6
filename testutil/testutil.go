// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/cycle-vote/cliparse"
	"github.com/danielhkuo/cycle-vote/db"
	"github.com/danielhkuo/cycle-vote/oracle"
	"github.com/danielhkuo/cycle-vote/voting"
)

// TestAdminKey is the admin key in GetTestConfig
const TestAdminKey = "test-admin-key"

// TestMinimumBalance is the eligibility threshold in GetTestConfig
var TestMinimumBalance = decimal.NewFromInt(100000)

// SetupTestDB opens a fresh SQLite store in a temp dir with the schema applied
func SetupTestDB(t *testing.T) *db.Store {
	t.Helper()

	s, err := db.Open(db.DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := db.CreateSchema(s.DB()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return s
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        "file:test.db",
		DatabaseType:       "sqlite",
		AdminKey:           TestAdminKey,
		SolanaRPCURL:       "http://127.0.0.1:0",
		TokenMint:          cliparse.CycleMint,
		TokenSymbol:        "CYCLE",
		MinimumBalance:     TestMinimumBalance,
		EnforceEligibility: true,
		OracleTimeout:      time.Second,
		BalanceCacheTTL:    time.Minute,
		RoundDuration:      3 * time.Hour,
	}
}

// Clock is a settable time source for voting.WithClock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 5, 18, 16, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTestService builds a voting service over a fresh SQLite store
func NewTestService(t *testing.T, clock *Clock) *voting.Service {
	t.Helper()
	return voting.New(SetupTestDB(t),
		voting.WithClock(clock.Now),
		voting.WithTokenSymbol("CYCLE"),
	)
}

// FakeOracle serves balances from a map. Unknown wallets hold zero.
type FakeOracle struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	err      error
	calls    atomic.Int32
}

func NewFakeOracle() *FakeOracle {
	return &FakeOracle{balances: make(map[string]decimal.Decimal)}
}

// SetBalance sets the balance returned for address
func (f *FakeOracle) SetBalance(address string, amount int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[address] = decimal.NewFromInt(amount)
}

// FailWith makes every lookup return err; nil restores normal behavior
func (f *FakeOracle) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Calls returns how many lookups have been made
func (f *FakeOracle) Calls() int {
	return int(f.calls.Load())
}

func (f *FakeOracle) BalanceOf(ctx context.Context, address, mint string) (decimal.Decimal, error) {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.balances[address], nil
}

// NewTestGate returns a gate over o using the test config's mint and minimum
func NewTestGate(o oracle.Oracle) *oracle.Gate {
	cfg := GetTestConfig()
	return &oracle.Gate{Oracle: o, Mint: cfg.TokenMint, Minimum: cfg.MinimumBalance}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AdminHeaders returns headers carrying the test admin key
func AdminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": TestAdminKey}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// AssertErrorCode checks the status and the "error" field of a failure body
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, w, status)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error body: %v. Body: %s", err, w.Body.String())
	}
	if resp.Success || resp.Error != code {
		t.Errorf("Expected error code %q, got %q (success=%v)", code, resp.Error, resp.Success)
	}
}
