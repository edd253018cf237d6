// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/cycle-vote/models"
	"github.com/danielhkuo/cycle-vote/testutil"
)

func (env *testEnv) startRound(body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/api/rounds", body, headers)
	w := httptest.NewRecorder()
	env.admin.StartRound(w, req)
	return w
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/api/init-voting", nil)
	w := httptest.NewRecorder()
	env.admin.Init(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp envelope[models.InitResponse]
	testutil.AssertJSON(t, w, &resp)

	if resp.Message != "Voting system initialized successfully" {
		t.Errorf("Unexpected message: %q", resp.Message)
	}
	if resp.Data.Round.ID == "" || resp.Data.Round.Question != models.DefaultQuestion {
		t.Errorf("Expected initialized default round, got %+v", resp.Data.Round)
	}
	if resp.Data.History == nil || len(resp.Data.History) != 0 {
		t.Errorf("Expected empty history array, got %#v", resp.Data.History)
	}

	// Second call returns the same round
	w = httptest.NewRecorder()
	env.admin.Init(w, httptest.NewRequest("GET", "/api/init-voting", nil))
	again := decodeData[models.InitResponse](t, w)
	if again.Round.ID != resp.Data.Round.ID {
		t.Errorf("Init replaced the round: %s -> %s", resp.Data.Round.ID, again.Round.ID)
	}
}

func TestAdminAuth(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no key", nil},
		{"wrong key", map[string]string{"X-Admin-Key": "nope"}},
		{"wrong bearer", map[string]string{"Authorization": "Bearer nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			req := testutil.MakeRequest("POST", "/api/rounds/close", nil, tt.headers)
			w := httptest.NewRecorder()
			env.admin.CloseRound(w, req)
			testutil.AssertErrorCode(t, w, http.StatusUnauthorized, "Unauthorized")

			w = env.startRound(nil, tt.headers)
			testutil.AssertErrorCode(t, w, http.StatusUnauthorized, "Unauthorized")
		})
	}
}

func TestCloseRound(t *testing.T) {
	env := newTestEnv(t)
	env.oracle.SetBalance("late", 200000)

	req := testutil.MakeRequest("POST", "/api/rounds/close", nil, testutil.AdminHeaders())
	w := httptest.NewRecorder()
	env.admin.CloseRound(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	round := decodeData[models.Round](t, w)
	if round.IsActive {
		t.Error("Expected is_active=false after close")
	}

	testutil.AssertErrorCode(t, env.vote("late", "yes"), http.StatusConflict, "RoundClosed")
}

func TestCloseRound_BearerToken(t *testing.T) {
	env := newTestEnv(t)

	req := testutil.MakeRequest("POST", "/api/rounds/close", nil, map[string]string{
		"Authorization": "Bearer " + testutil.TestAdminKey,
	})
	w := httptest.NewRecorder()
	env.admin.CloseRound(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestStartRound_RejectsOpenRound(t *testing.T) {
	env := newTestEnv(t)
	env.currentRound(t)

	w := env.startRound(nil, testutil.AdminHeaders())
	testutil.AssertErrorCode(t, w, http.StatusConflict, "RoundOpen")
}

func TestStartRound_ArchivesAndResets(t *testing.T) {
	env := newTestEnv(t)
	for i, wallet := range []string{"a", "b", "c", "d"} {
		env.oracle.SetBalance(wallet, 100000)
		option := "yes"
		if i == 3 {
			option = "no"
		}
		testutil.AssertStatus(t, env.vote(wallet, option), http.StatusOK)
	}
	env.clock.Advance(4 * time.Hour)

	w := env.startRound(models.StartRoundRequest{
		Question:        "Burn again?",
		DurationMinutes: 30,
		BurnAmount:      189240,
		TxID:            "0x7a2d...f3e9",
	}, testutil.AdminHeaders())
	testutil.AssertStatus(t, w, http.StatusCreated)

	started := decodeData[models.StartRoundResponse](t, w)
	if started.Archived == nil {
		t.Fatal("Expected archived entry")
	}
	archived := started.Archived
	if archived.Result != "YES" || archived.TotalVotes != 4 {
		t.Errorf("Unexpected archive: %+v", archived)
	}
	if archived.BurnAmount != "189,240 $CYCLE" || archived.TxID != "0x7a2d...f3e9" {
		t.Errorf("Unexpected payout: %q / %q", archived.BurnAmount, archived.TxID)
	}
	if len(archived.Options) != 2 || archived.Options[0].Percentage != 75 || archived.Options[1].Percentage != 25 {
		t.Errorf("Unexpected percentages: %+v", archived.Options)
	}
	if started.Round.Question != "Burn again?" || started.Round.TotalVotes != 0 {
		t.Errorf("Unexpected new round: %+v", started.Round)
	}
	if !started.Round.EndTime.Equal(env.clock.Now().Add(30 * time.Minute)) {
		t.Errorf("Expected 30 minute round, ends %v", started.Round.EndTime)
	}

	// Same wallet may vote again in the new round
	testutil.AssertStatus(t, env.vote("a", "no"), http.StatusOK)

	// History endpoint shows the archived round
	w = httptest.NewRecorder()
	env.history.GetHistory(w, httptest.NewRequest("GET", "/api/vote/history", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	history := decodeData[[]models.HistoryEntry](t, w)
	if len(history) != 1 || history[0].ID != archived.ID {
		t.Errorf("Expected archived round in history, got %+v", history)
	}
}

func TestStartRound_ForceAndCustomOptions(t *testing.T) {
	env := newTestEnv(t)
	env.currentRound(t)

	w := env.startRound(models.StartRoundRequest{
		Question: "Which pool?",
		Options: []models.OptionInput{
			{ID: "a", Label: "Pool A", Color: "blue"},
			{ID: "b", Label: "Pool B"},
			{ID: "c", Label: "Pool C"},
		},
		Force: true,
	}, testutil.AdminHeaders())
	testutil.AssertStatus(t, w, http.StatusCreated)

	started := decodeData[models.StartRoundResponse](t, w)
	if started.Archived == nil || started.Archived.BurnAmount != models.NoneSentinel {
		t.Errorf("Expected archived entry without burn, got %+v", started.Archived)
	}
	if len(started.Round.Options) != 3 || started.Round.Options[0].Color != "blue" {
		t.Errorf("Unexpected options: %+v", started.Round.Options)
	}
}

func TestStartRound_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"negative duration", models.StartRoundRequest{DurationMinutes: -5, Force: true}},
		{"negative burn", models.StartRoundRequest{BurnAmount: -1, Force: true}},
		{"one option", models.StartRoundRequest{Options: []models.OptionInput{{ID: "a", Label: "A"}}, Force: true}},
		{"duplicate options", models.StartRoundRequest{Options: []models.OptionInput{{ID: "a", Label: "A"}, {ID: "a", Label: "B"}}, Force: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			w := env.startRound(tt.body, testutil.AdminHeaders())
			testutil.AssertErrorCode(t, w, http.StatusBadRequest, "InvalidRequest")
		})
	}

	t.Run("invalid JSON", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest("POST", "/api/rounds", strings.NewReader(`{"force":`))
		req.Header.Set("X-Admin-Key", testutil.TestAdminKey)
		w := httptest.NewRecorder()
		env.admin.StartRound(w, req)
		testutil.AssertErrorCode(t, w, http.StatusBadRequest, "InvalidRequest")
	})
}

func TestGetHistory_Empty(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.history.GetHistory(w, httptest.NewRequest("GET", "/api/vote/history", nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), `"data":[]`) {
		t.Errorf("Expected empty history array, got %s", w.Body.String())
	}
}
