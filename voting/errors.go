// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

// Kind classifies a vote or round failure
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidRequest
	KindRoundClosed
	KindUnknownOption
	KindDuplicateVote
	KindRoundOpen
	KindStoreUnavailable
)

var kindNames = [...]string{
	KindUnknown:          "Unknown",
	KindInvalidRequest:   "InvalidRequest",
	KindRoundClosed:      "RoundClosed",
	KindUnknownOption:    "UnknownOption",
	KindDuplicateVote:    "DuplicateVote",
	KindRoundOpen:        "RoundOpen",
	KindStoreUnavailable: "StoreUnavailable",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// Error is returned by every Service operation that fails.
// errors.Is matches on Kind, so callers can compare against the Err* values.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidRequest   = &Error{Kind: KindInvalidRequest, Msg: "missing required fields"}
	ErrRoundClosed      = &Error{Kind: KindRoundClosed, Msg: "voting has ended"}
	ErrUnknownOption    = &Error{Kind: KindUnknownOption, Msg: "invalid option"}
	ErrDuplicateVote    = &Error{Kind: KindDuplicateVote, Msg: "this wallet has already voted"}
	ErrRoundOpen        = &Error{Kind: KindRoundOpen, Msg: "round is still open"}
	ErrStoreUnavailable = &Error{Kind: KindStoreUnavailable, Msg: "store unavailable"}
)

// KindOf returns the Kind carried by err, or KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalid(msg string) error {
	return &Error{Kind: KindInvalidRequest, Msg: msg}
}

// storeFailure passes classified errors through and marks everything else
// as a store failure.
func storeFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindUnknown {
		return err
	}
	return &Error{Kind: KindStoreUnavailable, Msg: "failed to " + op, Err: err}
}
