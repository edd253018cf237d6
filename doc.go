// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the cycle-vote API server.

cycle-vote runs a wallet-gated community poll: holders of a minimum balance
of an SPL token cast one vote per wallet on the current round, tallies are
shown live, and finished rounds are archived into a history log.

# Starting the Server

The server reads environment variables (optionally from .env) or CLI flags:

	DATABASE_URL=cycle.db ADMIN_KEY=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-key ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - ADMIN_KEY (-admin-key): Key for round management endpoints

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - SOLANA_RPC_URL (-rpc), TOKEN_MINT (-mint), MINIMUM_BALANCE (-min-balance)
  - ROUND_DURATION (-round-duration): Length of new rounds (default: 3h)

See package cliparse for the full list.

# Architecture

  - voting: Round state machine, vote recording, history archival
  - store: Key-value and set storage contract, in-memory implementation
  - db: SQL implementation of the store and schema creation
  - oracle: Token balance lookups and the eligibility gate
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Admin key validation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
