// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package oracle looks up wallet token balances and gates voting on a minimum.

Solana queries an RPC node for every token account the wallet owns for the
configured mint and sums their balances. Cached wraps any Oracle with a
short-lived LRU. Gate compares the result with the configured minimum.

Lookup failures are reported as ErrRateLimited, ErrUnavailable or
ErrInvalidAddress so callers can tell "try again later" apart from "not
enough tokens".
*/
package oracle
