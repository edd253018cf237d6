// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth guards the round management endpoints.

# Admin Key

A single admin key is configured at startup (ADMIN_KEY). Requests present it
in the X-Admin-Key header or as a bearer token:

	key := auth.AdminKeyFromRequest(r)
	if err := auth.ValidateAdminKey(key, cfg.AdminKey); err != nil {
		// 401
	}

Both keys are hashed with SHA-256 and compared with hmac.Equal, so the check
runs in constant time.

Voters are identified by wallet address only; there are no voter tokens.
*/
package auth
