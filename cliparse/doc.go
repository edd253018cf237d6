// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadEnvFile reads an optional .env file, then ParseFlags returns a Config
struct with all settings:

	if err := cliparse.LoadEnvFile(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p                    Server port
	-d                    Database URL
	-t                    Database type (sqlite or postgres)
	-admin-key            Admin key for round management
	-rpc                  Solana RPC endpoint
	-mint                 Token mint gating votes
	-symbol               Token symbol shown in burn summaries
	-min-balance          Minimum token balance
	-enforce-eligibility  Require the minimum balance to vote
	-oracle-timeout       Timeout for each balance lookup
	-balance-cache-ttl    How long a looked-up balance is reused
	-round-duration       Length of a new round

# Environment Variables

Flags fall back to environment variables:

	PORT                → -p                    (default 3318)
	DATABASE_URL        → -d                    (required)
	DATABASE_TYPE       → -t                    (default sqlite)
	ADMIN_KEY           → -admin-key            (required)
	SOLANA_RPC_URL      → -rpc                  (default mainnet-beta)
	TOKEN_MINT          → -mint                 (default CYCLE mint)
	TOKEN_SYMBOL        → -symbol               (default CYCLE)
	MINIMUM_BALANCE     → -min-balance          (default 100000)
	ENFORCE_ELIGIBILITY → -enforce-eligibility  (default true)
	ORACLE_TIMEOUT      → -oracle-timeout       (default 10s)
	BALANCE_CACHE_TTL   → -balance-cache-ttl    (default 1m)
	ROUND_DURATION      → -round-duration       (default 3h)

CLI flags take precedence over environment variables, and variables already
present in the environment take precedence over the .env file.

# Validation

ParseFlags returns an error if DATABASE_URL or ADMIN_KEY is missing, if the
token mint is not a base58 public key, or if any numeric, boolean or
duration value does not parse.
*/
package cliparse
