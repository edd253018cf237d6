// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/cycle-vote/auth"
	"github.com/danielhkuo/cycle-vote/cliparse"
	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/models"
	"github.com/danielhkuo/cycle-vote/voting"
)

type AdminHandler struct {
	svc *voting.Service
	cfg cliparse.Config
}

func NewAdminHandler(svc *voting.Service, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{svc: svc, cfg: cfg}
}

// authorize writes a 401 and returns false when the admin key is missing or wrong
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if err := auth.ValidateAdminKey(auth.AdminKeyFromRequest(r), h.cfg.AdminKey); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

// Init handles GET /api/init-voting
func (h *AdminHandler) Init(w http.ResponseWriter, r *http.Request) {
	round, history, err := h.svc.Init(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Voting system initialized successfully",
		Data: models.InitResponse{
			Round:   round,
			History: history,
		},
	})
}

// CloseRound handles POST /api/rounds/close
func (h *AdminHandler) CloseRound(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	round, err := h.svc.CloseRound(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Message: "Round closed",
		Data:    round,
	})
}

// StartRound handles POST /api/rounds
// An empty body starts a default round once the current one has ended.
func (h *AdminHandler) StartRound(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}

	var req models.StartRoundRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, voting.KindInvalidRequest.String(), "Invalid JSON")
			return
		}
	}

	if req.DurationMinutes < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, voting.KindInvalidRequest.String(), "duration_minutes must not be negative")
		return
	}
	if req.BurnAmount < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, voting.KindInvalidRequest.String(), "burn_amount must not be negative")
		return
	}

	nr := voting.NewRound{
		Question: req.Question,
		Duration: time.Duration(req.DurationMinutes) * time.Minute,
		Payout: voting.Payout{
			Amount: req.BurnAmount,
			Symbol: h.cfg.TokenSymbol,
			TxID:   req.TxID,
		},
		Force: req.Force,
	}
	for _, opt := range req.Options {
		nr.Options = append(nr.Options, models.Option{ID: opt.ID, Label: opt.Label, Color: opt.Color})
	}

	archived, round, err := h.svc.StartNewRound(r.Context(), nr)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.APIResponse{
		Success: true,
		Message: "New round started",
		Data: models.StartRoundResponse{
			Archived: archived,
			Round:    round,
		},
	})
}
