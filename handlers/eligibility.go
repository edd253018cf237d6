// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/models"
	"github.com/danielhkuo/cycle-vote/oracle"
	"github.com/danielhkuo/cycle-vote/voting"
)

type EligibilityHandler struct {
	gate *oracle.Gate
}

func NewEligibilityHandler(gate *oracle.Gate) *EligibilityHandler {
	return &EligibilityHandler{gate: gate}
}

// Check handles GET /api/eligibility?wallet=
// A wallet below the minimum is still a 200 with eligible=false; only lookup
// failures are errors.
func (h *EligibilityHandler) Check(w http.ResponseWriter, r *http.Request) {
	wallet := r.URL.Query().Get("wallet")
	if wallet == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, voting.KindInvalidRequest.String(), "missing wallet address")
		return
	}

	e, err := h.gate.Check(r.Context(), wallet)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.APIResponse{
		Success: true,
		Data: models.EligibilityResponse{
			WalletAddress: e.Address,
			TokenMint:     e.Mint,
			Balance:       e.Balance,
			Minimum:       e.Minimum,
			Eligible:      e.Eligible,
		},
	})
}
