// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/cycle-vote/auth"
	"github.com/danielhkuo/cycle-vote/middleware"
	"github.com/danielhkuo/cycle-vote/oracle"
	"github.com/danielhkuo/cycle-vote/voting"
)

// Failure codes carried in the "error" field of error bodies, in addition
// to the voting.Kind names.
const (
	CodeInsufficientBalance = "InsufficientBalance"
	CodeOracleRateLimited   = "OracleRateLimited"
	CodeOracleUnavailable   = "OracleUnavailable"
	CodeInvalidAddress      = "InvalidAddress"
	CodeUnauthorized        = "Unauthorized"
)

var kindStatus = map[voting.Kind]int{
	voting.KindInvalidRequest:   http.StatusBadRequest,
	voting.KindUnknownOption:    http.StatusBadRequest,
	voting.KindRoundClosed:      http.StatusConflict,
	voting.KindDuplicateVote:    http.StatusConflict,
	voting.KindRoundOpen:        http.StatusConflict,
	voting.KindStoreUnavailable: http.StatusInternalServerError,
}

// classify maps an error to its HTTP status, failure code and client message
func classify(err error) (status int, code, message string) {
	var ve *voting.Error
	switch {
	case errors.As(err, &ve):
		s, ok := kindStatus[ve.Kind]
		if !ok {
			s = http.StatusInternalServerError
		}
		return s, ve.Kind.String(), ve.Msg
	case errors.Is(err, oracle.ErrInsufficientBalance):
		return http.StatusForbidden, CodeInsufficientBalance, "insufficient token balance to vote"
	case errors.Is(err, oracle.ErrRateLimited):
		return http.StatusTooManyRequests, CodeOracleRateLimited, "balance lookup is rate limited, try again later"
	case errors.Is(err, oracle.ErrInvalidAddress):
		return http.StatusBadRequest, CodeInvalidAddress, "invalid wallet address"
	case errors.Is(err, oracle.ErrUnavailable):
		return http.StatusServiceUnavailable, CodeOracleUnavailable, "balance lookup failed, try again later"
	case errors.Is(err, auth.ErrMissingAdminKey), errors.Is(err, auth.ErrInvalidAdminKey):
		return http.StatusUnauthorized, CodeUnauthorized, err.Error()
	}
	return http.StatusInternalServerError, voting.KindStoreUnavailable.String(), "server error"
}

// writeError sends the JSON failure body for err
func writeError(w http.ResponseWriter, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", code, "error", err)
	}
	middleware.ErrorResponse(w, status, code, message)
}
