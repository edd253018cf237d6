// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/models"
	"github.com/danielhkuo/cycle-vote/voting"
)

type HistoryHandler struct {
	svc *voting.Service
}

func NewHistoryHandler(svc *voting.Service) *HistoryHandler {
	return &HistoryHandler{svc: svc}
}

// GetHistory handles GET /api/vote/history
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.History(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Data:    history,
	})
}
