// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting implements the round lifecycle: lazy initialization, vote
submission, closure, archival and rollover.

# Round State

A round is open while IsActive is set and the current time is strictly
before EndTime. Closure is never written back by time alone; it is
recomputed on every vote. CloseRound clears IsActive explicitly.

# Vote Submission

SubmitVote checks, in order:

  - wallet address and option id are present (InvalidRequest)
  - the round is open (RoundClosed)
  - the option exists (UnknownOption)
  - the wallet is not in the voted set (DuplicateVote)

The tally increment and the voted-set insertion run inside a single
store.Update and commit together.

# Rollover

StartNewRound archives the current round with Archive, prepends the entry
to history, clears the voted set and installs the next round. An open round
is only replaced when NewRound.Force is set.

# Errors

Every failure is an *Error carrying a Kind. Use errors.Is against the Err*
values or KindOf to classify:

	if errors.Is(err, voting.ErrDuplicateVote) {
		// 409
	}
*/
package voting
