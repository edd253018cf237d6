// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store defines the key-value and set storage contract used by the
voting service, along with an in-memory implementation.

Values are JSON encoded. Writes made through Update are staged and become
visible only when the callback returns nil. Updates are serialized, so a
read-check-write sequence inside one callback cannot interleave with
another.

The SQL-backed implementation lives in package db. Both are exercised by
the shared suite in store/storetest.
*/
package store
