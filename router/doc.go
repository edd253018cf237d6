// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the voting API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, gate, cfg)

# Endpoints

Health (pings the store):

	GET /health

Voting (public):

	GET  /api/vote                 - Current round and tallies
	POST /api/vote                 - Cast a vote
	GET  /api/vote/check?wallet=   - Has this wallet voted
	GET  /api/vote/history         - Archived rounds, newest first
	GET  /api/eligibility?wallet=  - Token balance against the minimum
	GET  /api/init-voting          - Ensure a round exists, return round and history

Round management (admin, requires X-Admin-Key):

	POST /api/rounds/close - End the current round early
	POST /api/rounds       - Archive the current round and start the next

# Handler Initialization

The router creates handler instances with dependency injection:

	votingHandler := handlers.NewVotingHandler(svc, gate, cfg)
	historyHandler := handlers.NewHistoryHandler(svc)
	eligibilityHandler := handlers.NewEligibilityHandler(gate)
	adminHandler := handlers.NewAdminHandler(svc, cfg)
*/
package router
