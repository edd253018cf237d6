// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides the SQL-backed key-value and set store.

# Opening

Open picks the driver from the database type and verifies the connection:

	st, err := db.Open(db.DialectPostgres, "postgres://...")
	if err != nil {
		log.Fatal(err)
	}
	if err := db.CreateSchema(st.DB()); err != nil {
		log.Fatal(err)
	}

Supported types:

  - postgres: github.com/lib/pq
  - sqlite: modernc.org/sqlite (pure Go, no cgo)

# Schema Creation

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes.

# Tables

  - kv: JSON encoded records keyed by record_key
  - kv_set: set members, one row per (set_key, member)

# Transactions

Store.Update runs inside a database transaction. On postgres every Update
first takes a transaction-scoped advisory lock so read-modify-write cycles on
a record never interleave. SQLite is limited to one open connection, which
gives the same serialization.

Store.View reads outside any transaction and may observe data that an
in-flight Update is about to replace.
*/
package db
