// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/cycle-vote/cliparse"
	"github.com/danielhkuo/cycle-vote/db"
	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/oracle"
	"github.com/danielhkuo/cycle-vote/router"
	"github.com/danielhkuo/cycle-vote/voting"
)

func main() {
	var err error

	// .env is optional; real environment variables win
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database (Open pings it)
	store, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer store.Close()

	// Create schema (tables)
	if err := db.CreateSchema(store.DB()); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	svc := voting.New(store,
		voting.WithRoundDuration(cfg.RoundDuration),
		voting.WithTokenSymbol(cfg.TokenSymbol),
	)

	balances := oracle.NewCached(
		oracle.NewSolana(cfg.SolanaRPCURL, cfg.OracleTimeout),
		oracle.DefaultCacheSize,
		cfg.BalanceCacheTTL,
	)
	gate := &oracle.Gate{
		Oracle:  balances,
		Mint:    cfg.TokenMint,
		Minimum: cfg.MinimumBalance,
	}
	slog.Info("Eligibility gate ready",
		"rpc", cfg.SolanaRPCURL,
		"mint", cfg.TokenMint,
		"minimum", cfg.MinimumBalance.String(),
		"enforced", cfg.EnforceEligibility,
	)

	// Create router
	mux := router.NewRouter(svc, gate, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
