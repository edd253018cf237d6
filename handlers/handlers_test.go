// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/cycle-vote/cliparse"
	"github.com/danielhkuo/cycle-vote/testutil"
	"github.com/danielhkuo/cycle-vote/voting"
)

// testEnv wires every handler over one SQLite-backed service
type testEnv struct {
	clock  *testutil.Clock
	oracle *testutil.FakeOracle
	svc    *voting.Service
	cfg    cliparse.Config

	voting      *VotingHandler
	history     *HistoryHandler
	eligibility *EligibilityHandler
	admin       *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		clock:  testutil.NewClock(),
		oracle: testutil.NewFakeOracle(),
		cfg:    testutil.GetTestConfig(),
	}
	env.svc = testutil.NewTestService(t, env.clock)
	gate := testutil.NewTestGate(env.oracle)

	env.voting = NewVotingHandler(env.svc, gate, env.cfg)
	env.history = NewHistoryHandler(env.svc)
	env.eligibility = NewEligibilityHandler(gate)
	env.admin = NewAdminHandler(env.svc, env.cfg)
	return env
}

// envelope mirrors models.APIResponse with a typed payload
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v. Body: %s", err, w.Body.String())
	}
	if !resp.Success {
		t.Errorf("Expected success=true. Body: %s", w.Body.String())
	}
	return resp.Data
}
