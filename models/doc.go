// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SubmitVoteRequest: wallet_address, option_id
  - StartRoundRequest: question, options, duration_minutes, burn_amount, tx_id, force

# Response Types

Types for JSON responses:

  - APIResponse: success, message, data
  - VoteStatusResponse: wallet_address, has_voted
  - EligibilityResponse: wallet_address, token_mint, balance, minimum, eligible
  - InitResponse: round, history
  - StartRoundResponse: archived, round
  - ErrorResponse: success, error, message

# Domain Types

Persisted records:

  - Round: the single current round with running tallies
  - Option: a choice within a round and its vote count
  - HistoryEntry: immutable summary of a concluded round
  - HistoryOption: per-option votes and percentage inside a HistoryEntry

# Constants

	NoneSentinel         = "—"
	DefaultQuestion      = "Should we trigger the next community burn now?"
	DefaultRoundDuration = 3 * time.Hour
*/
package models
