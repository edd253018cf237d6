// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
)

// TestConcurrentVotesSameWallet verifies that simultaneous submissions from
// one wallet record exactly one vote
func TestConcurrentVotesSameWallet(t *testing.T) {
	env := newTestEnv(t)
	env.oracle.SetBalance("racer", 100000)

	numAttempts := 20
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			option := "yes"
			if idx%2 == 0 {
				option = "no"
			}
			w := env.vote("racer", option)

			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			default:
				t.Errorf("Unexpected status %d: %s", w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful vote, got %d", successCount.Load())
	}
	if int(conflictCount.Load()) != numAttempts-1 {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}

	round := env.currentRound(t)
	if round.TotalVotes != 1 {
		t.Errorf("Expected total_votes 1, got %d", round.TotalVotes)
	}
}

// TestConcurrentVotesDistinctWallets verifies that no increments are lost
// when many wallets vote at once
func TestConcurrentVotesDistinctWallets(t *testing.T) {
	env := newTestEnv(t)

	numVoters := 24
	for i := 0; i < numVoters; i++ {
		env.oracle.SetBalance(fmt.Sprintf("voter-%02d", i), 100000)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			option := "yes"
			if idx%4 == 0 {
				option = "no"
			}
			w := env.vote(fmt.Sprintf("voter-%02d", idx), option)
			if w.Code == http.StatusOK {
				successCount.Add(1)
			} else {
				t.Errorf("Vote %d failed: %d %s", idx, w.Code, w.Body.String())
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	round := env.currentRound(t)
	var sum int64
	for _, opt := range round.Options {
		sum += opt.Votes
	}
	if round.TotalVotes != int64(numVoters) || sum != round.TotalVotes {
		t.Errorf("Tally mismatch: total_votes=%d sum=%d want %d", round.TotalVotes, sum, numVoters)
	}
	if round.Options[0].Votes != 18 || round.Options[1].Votes != 6 {
		t.Errorf("Expected yes=18 no=6, got yes=%d no=%d", round.Options[0].Votes, round.Options[1].Votes)
	}
}
