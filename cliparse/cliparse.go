// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// CycleMint is the SPL mint of the CYCLE token
const CycleMint = "HJ2n2a3YK1LTBCRbS932cTtmXw4puhgG8Jb2WcpEpump"

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKey     string

	SolanaRPCURL       string
	TokenMint          string
	TokenSymbol        string
	MinimumBalance     decimal.Decimal
	EnforceEligibility bool
	OracleTimeout      time.Duration
	BalanceCacheTTL    time.Duration

	RoundDuration time.Duration
}

// LoadEnvFile loads variables from a .env file into the environment without
// overriding anything already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and fills in defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var minBalance, roundDuration, enforce, oracleTimeout, cacheTTL string

	fs := flag.NewFlagSet("cycle-vote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key for round management (prefer env)")

	// Eligibility
	fs.StringVar(&cfg.SolanaRPCURL, "rpc", "", "Solana RPC endpoint")
	fs.StringVar(&cfg.TokenMint, "mint", "", "Token mint address gating votes")
	fs.StringVar(&cfg.TokenSymbol, "symbol", "", "Token symbol shown in burn summaries")
	fs.StringVar(&minBalance, "min-balance", "", "Minimum token balance required to vote")
	fs.StringVar(&enforce, "enforce-eligibility", "", "Require the minimum balance to vote (true or false)")
	fs.StringVar(&oracleTimeout, "oracle-timeout", "", "Timeout for each balance lookup (e.g. 10s)")
	fs.StringVar(&cacheTTL, "balance-cache-ttl", "", "How long a looked-up balance is reused (e.g. 1m)")

	fs.StringVar(&roundDuration, "round-duration", "", "How long a new round stays open (e.g. 3h)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	cfg.DatabaseType = firstNonEmpty(cfg.DatabaseType, os.Getenv("DATABASE_TYPE"), "sqlite")
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	cfg.SolanaRPCURL = firstNonEmpty(cfg.SolanaRPCURL, os.Getenv("SOLANA_RPC_URL"), rpc.MainNetBeta_RPC)
	cfg.TokenMint = firstNonEmpty(cfg.TokenMint, os.Getenv("TOKEN_MINT"), CycleMint)
	if _, err := solana.PublicKeyFromBase58(cfg.TokenMint); err != nil {
		return Config{}, fmt.Errorf("invalid token mint %q: %w", cfg.TokenMint, err)
	}
	cfg.TokenSymbol = firstNonEmpty(cfg.TokenSymbol, os.Getenv("TOKEN_SYMBOL"), "CYCLE")

	var err error
	cfg.MinimumBalance, err = decimal.NewFromString(firstNonEmpty(minBalance, os.Getenv("MINIMUM_BALANCE"), "100000"))
	if err != nil {
		return Config{}, errors.New("invalid minimum balance")
	}
	if cfg.MinimumBalance.IsNegative() {
		return Config{}, errors.New("minimum balance must not be negative")
	}

	cfg.EnforceEligibility = true
	if v := firstNonEmpty(enforce, os.Getenv("ENFORCE_ELIGIBILITY")); v != "" {
		cfg.EnforceEligibility, err = strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid enforce eligibility value %q", v)
		}
	}

	if cfg.RoundDuration, err = parseDuration("round duration", firstNonEmpty(roundDuration, os.Getenv("ROUND_DURATION")), 3*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OracleTimeout, err = parseDuration("oracle timeout", firstNonEmpty(oracleTimeout, os.Getenv("ORACLE_TIMEOUT")), 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.BalanceCacheTTL, err = parseDuration("balance cache ttl", firstNonEmpty(cacheTTL, os.Getenv("BALANCE_CACHE_TTL")), time.Minute); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return d, nil
}
