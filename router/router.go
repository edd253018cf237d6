// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/cycle-vote/cliparse"
	"github.com/danielhkuo/cycle-vote/handlers"
	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/oracle"
	"github.com/danielhkuo/cycle-vote/voting"
)

func NewRouter(svc *voting.Service, gate *oracle.Gate, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(svc, gate, cfg)
	historyHandler := handlers.NewHistoryHandler(svc)
	eligibilityHandler := handlers.NewEligibilityHandler(gate)
	adminHandler := handlers.NewAdminHandler(svc, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting (public)
	mux.HandleFunc("GET /api/vote", middleware.WithLogging(votingHandler.GetRound))
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(votingHandler.SubmitVote))
	mux.HandleFunc("GET /api/vote/check", middleware.WithLogging(votingHandler.CheckVote))
	mux.HandleFunc("GET /api/vote/history", middleware.WithLogging(historyHandler.GetHistory))
	mux.HandleFunc("GET /api/eligibility", middleware.WithLogging(eligibilityHandler.Check))
	mux.HandleFunc("GET /api/init-voting", middleware.WithLogging(adminHandler.Init))

	// Round management (admin operations)
	mux.HandleFunc("POST /api/rounds/close", middleware.WithLogging(adminHandler.CloseRound))
	mux.HandleFunc("POST /api/rounds", middleware.WithLogging(adminHandler.StartRound))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("cycle-vote API v1"))
	})

	return mux
}
