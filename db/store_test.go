// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/cycle-vote/store"
	"github.com/danielhkuo/cycle-vote/store/storetest"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()

	s, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := CreateSchema(s.DB()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openSQLite(t)
	})
}

// TestPostgresStore runs against TEST_DATABASE_URL when it is set
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(DialectPostgres, dsn)
		if err != nil {
			t.Fatalf("Failed to open test database: %v", err)
		}
		t.Cleanup(func() { s.Close() })

		if _, err := s.DB().Exec(`
			DROP TABLE IF EXISTS kv_set CASCADE;
			DROP TABLE IF EXISTS kv CASCADE;
		`); err != nil {
			t.Fatalf("Failed to clean database: %v", err)
		}
		if err := CreateSchema(s.DB()); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
		return s
	})
}

func TestCreateSchema_Idempotent(t *testing.T) {
	s := openSQLite(t)

	// openSQLite already created it once
	if err := CreateSchema(s.DB()); err != nil {
		t.Errorf("Second CreateSchema failed: %v", err)
	}
}

func TestOpen_UnsupportedDialect(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect string
		query   string
		want    string
	}{
		{DialectPostgres, "SELECT ? , ?", "SELECT $1 , $2"},
		{DialectSQLite, "SELECT ? , ?", "SELECT ? , ?"},
		{DialectPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		s := &Store{dialect: tt.dialect}
		if got := s.rebind(tt.query); got != tt.want {
			t.Errorf("rebind(%q) [%s] = %q, want %q", tt.query, tt.dialect, got, tt.want)
		}
	}
}
