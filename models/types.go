// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoneSentinel marks an absent burn amount or transaction reference
const NoneSentinel = "—"

// Default round constants
const (
	DefaultQuestion      = "Should we trigger the next community burn now?"
	DefaultRoundDuration = 3 * time.Hour
)

// Request types

type SubmitVoteRequest struct {
	WalletAddress string `json:"wallet_address"`
	OptionID      string `json:"option_id"`
}

type OptionInput struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// StartRoundRequest archives the current round and opens a new one.
// Empty fields fall back to the default round.
type StartRoundRequest struct {
	Question        string        `json:"question"`
	Options         []OptionInput `json:"options"`
	DurationMinutes int           `json:"duration_minutes"`
	BurnAmount      int64         `json:"burn_amount"`
	TxID            string        `json:"tx_id"`
	Force           bool          `json:"force"`
}

// Response types

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type VoteStatusResponse struct {
	WalletAddress string `json:"wallet_address"`
	HasVoted      bool   `json:"has_voted"`
}

type EligibilityResponse struct {
	WalletAddress string          `json:"wallet_address"`
	TokenMint     string          `json:"token_mint"`
	Balance       decimal.Decimal `json:"balance"`
	Minimum       decimal.Decimal `json:"minimum"`
	Eligible      bool            `json:"eligible"`
}

type InitResponse struct {
	Round   Round          `json:"round"`
	History []HistoryEntry `json:"history"`
}

type StartRoundResponse struct {
	Archived *HistoryEntry `json:"archived,omitempty"`
	Round    Round         `json:"round"`
}

// Domain types

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
	Votes int64  `json:"votes"`
}

type Round struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	EndTime    time.Time `json:"end_time"`
	Options    []Option  `json:"options"`
	TotalVotes int64     `json:"total_votes"`
	IsActive   bool      `json:"is_active"`
}

// IsOpen reports whether the round accepts votes at now
func (r Round) IsOpen(now time.Time) bool {
	return r.IsActive && now.Before(r.EndTime)
}

// Option returns the index of the option with the given id, or -1
func (r Round) Option(id string) int {
	for i, opt := range r.Options {
		if opt.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so the options slice is never shared
func (r Round) Clone() Round {
	c := r
	c.Options = append([]Option(nil), r.Options...)
	return c
}

type HistoryOption struct {
	Label      string  `json:"label"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

// HistoryEntry is the archived result of a concluded round. Never mutated.
type HistoryEntry struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	Question      string          `json:"question"`
	WinningOption string          `json:"winning_option"`
	Result        string          `json:"result"`
	BurnAmount    string          `json:"burn_amount"`
	TxID          string          `json:"tx_id"`
	TotalVotes    int64           `json:"total_votes"`
	Options       []HistoryOption `json:"options"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
