// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/cycle-vote/cliparse"
	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/models"
	"github.com/danielhkuo/cycle-vote/oracle"
	"github.com/danielhkuo/cycle-vote/voting"
)

type VotingHandler struct {
	svc  *voting.Service
	gate *oracle.Gate
	cfg  cliparse.Config
}

func NewVotingHandler(svc *voting.Service, gate *oracle.Gate, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, gate: gate, cfg: cfg}
}

// GetRound handles GET /api/vote
func (h *VotingHandler) GetRound(w http.ResponseWriter, r *http.Request) {
	round, err := h.svc.GetRound(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Data:    round,
	})
}

// SubmitVote handles POST /api/vote
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, voting.KindInvalidRequest.String(), "Invalid JSON")
		return
	}

	if req.WalletAddress == "" || req.OptionID == "" {
		writeError(w, voting.ErrInvalidRequest)
		return
	}

	// Eligibility is checked before the vote reaches the service
	if h.cfg.EnforceEligibility && h.gate != nil {
		if _, err := h.gate.Require(r.Context(), req.WalletAddress); err != nil {
			slog.Info("vote rejected by eligibility gate", "wallet", req.WalletAddress, "error", err)
			writeError(w, err)
			return
		}
	}

	round, err := h.svc.SubmitVote(r.Context(), req.WalletAddress, req.OptionID)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Vote recorded successfully",
		Data:    round,
	})
}

// CheckVote handles GET /api/vote/check?wallet=
func (h *VotingHandler) CheckVote(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")

	voted, err := h.svc.HasVoted(r.Context(), wallet)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.VoteStatusResponse{
			WalletAddress: wallet,
			HasVoted:      voted,
		},
	})
}
