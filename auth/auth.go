// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"
)

// HeaderAdminKey carries the admin key on round management requests
const HeaderAdminKey = "X-Admin-Key"

var (
	ErrMissingAdminKey = errors.New("admin key required")
	ErrInvalidAdminKey = errors.New("invalid admin key")
)

// AdminKeyFromRequest reads the admin key from the X-Admin-Key header,
// falling back to an "Authorization: Bearer" token.
func AdminKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get(HeaderAdminKey); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// ValidateAdminKey checks provided against the configured key.
// Both sides are hashed first so the comparison time does not depend on
// how long a matching prefix is, or on the key length.
func ValidateAdminKey(provided, expected string) error {
	if provided == "" {
		return ErrMissingAdminKey
	}
	if expected == "" {
		return ErrInvalidAdminKey
	}
	p := sha256.Sum256([]byte(provided))
	e := sha256.Sum256([]byte(expected))
	if !hmac.Equal(p[:], e[:]) {
		return ErrInvalidAdminKey
	}
	return nil
}
