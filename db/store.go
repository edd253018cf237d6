// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/cycle-vote/store"
)

// Supported database types
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// advisoryLockKey serializes writers on postgres. Arbitrary but fixed.
const advisoryLockKey = 0x6379636c65

// Store is a store.Store backed by PostgreSQL or SQLite
type Store struct {
	db      *sql.DB
	dialect string
}

var _ store.Store = (*Store)(nil)

// Open connects to the database and verifies the connection
func Open(dialect, dsn string) (*Store, error) {
	var driver string
	switch dialect {
	case DialectPostgres:
		driver = "postgres"
	case DialectSQLite:
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dialect)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; one connection keeps transactions from
	// failing with SQLITE_BUSY.
	if dialect == DialectSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return New(conn, dialect), nil
}

// New wraps an existing connection. The schema must already exist.
func New(conn *sql.DB, dialect string) *Store {
	return &Store{db: conn, dialect: dialect}
}

// DB returns the underlying connection
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if s.dialect == DialectPostgres {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", advisoryLockKey); err != nil {
			return fmt.Errorf("failed to acquire write lock: %w", err)
		}
	}

	if err := fn(&sqlTx{q: tx, s: s, writable: true}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(&sqlTx{q: s.db, s: s})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type sqlTx struct {
	q        querier
	s        *Store
	writable bool
}

func (tx *sqlTx) Get(ctx context.Context, key string, v interface{}) error {
	var value string
	err := tx.q.QueryRowContext(ctx, tx.s.rebind(`
		SELECT value FROM kv WHERE record_key = ?
	`), key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (tx *sqlTx) Set(ctx context.Context, key string, v interface{}) error {
	if !tx.writable {
		return store.ErrReadOnly
	}

	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = tx.q.ExecContext(ctx, tx.s.rebind(`
		INSERT INTO kv (record_key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (record_key) DO UPDATE
		SET value = excluded.value, updated_at = excluded.updated_at
	`), key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (tx *sqlTx) SetContains(ctx context.Context, setKey, member string) (bool, error) {
	var exists bool
	err := tx.q.QueryRowContext(ctx, tx.s.rebind(`
		SELECT EXISTS(
			SELECT 1 FROM kv_set
			WHERE set_key = ? AND member = ?
		)
	`), setKey, member).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s membership: %w", setKey, err)
	}
	return exists, nil
}

func (tx *sqlTx) SetAdd(ctx context.Context, setKey, member string) (bool, error) {
	if !tx.writable {
		return false, store.ErrReadOnly
	}

	res, err := tx.q.ExecContext(ctx, tx.s.rebind(`
		INSERT INTO kv_set (set_key, member, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT (set_key, member) DO NOTHING
	`), setKey, member, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("failed to add to %s: %w", setKey, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

func (tx *sqlTx) SetClear(ctx context.Context, setKey string) error {
	if !tx.writable {
		return store.ErrReadOnly
	}

	_, err := tx.q.ExecContext(ctx, tx.s.rebind(`
		DELETE FROM kv_set WHERE set_key = ?
	`), setKey)
	if err != nil {
		return fmt.Errorf("failed to clear %s: %w", setKey, err)
	}
	return nil
}
