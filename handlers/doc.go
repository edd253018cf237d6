// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the voting API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - VotingHandler: current round, vote submission, vote status
  - HistoryHandler: archived rounds
  - EligibilityHandler: token balance check for a wallet
  - AdminHandler: initialization and round management

	votingHandler := handlers.NewVotingHandler(svc, gate, cfg)

# Voting Flow

	GET  /api/vote                → GetRound
	POST /api/vote                → SubmitVote
	GET  /api/vote/check?wallet=  → CheckVote
	GET  /api/vote/history        → GetHistory
	GET  /api/eligibility?wallet= → Check

SubmitVote runs the eligibility gate before handing the vote to the voting
service, unless ENFORCE_ELIGIBILITY is off. The token balance only gates a
vote; every accepted vote counts once.

# Round Management

	GET  /api/init-voting   → Init
	POST /api/rounds/close  → CloseRound (X-Admin-Key)
	POST /api/rounds        → StartRound (X-Admin-Key)

StartRound archives the current round into history and opens the next one.
It refuses while the current round is still open unless "force" is set.

# Errors

Failures are JSON bodies whose "error" field names the failure class:

	InvalidRequest, UnknownOption, InvalidAddress   400
	Unauthorized                                    401
	InsufficientBalance                             403
	RoundClosed, DuplicateVote, RoundOpen           409
	OracleRateLimited                               429
	StoreUnavailable                                500
	OracleUnavailable                               503
*/
package handlers
