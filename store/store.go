// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrReadOnly = errors.New("write in read-only transaction")
)

// Tx is the key-value and set view available inside one Update or View call.
// Records are JSON encoded.
type Tx interface {
	// Get decodes the record at key into v. Returns ErrNotFound when absent.
	Get(ctx context.Context, key string, v interface{}) error
	Set(ctx context.Context, key string, v interface{}) error

	SetContains(ctx context.Context, setKey, member string) (bool, error)
	// SetAdd reports whether member was newly added
	SetAdd(ctx context.Context, setKey, member string) (bool, error)
	SetClear(ctx context.Context, setKey string) error
}

// Store is an atomic key-value + set store.
//
// Update runs fn as a single unit: every write made through the Tx is
// committed if fn returns nil and discarded otherwise. Updates are serialized
// against each other. View runs fn against current data without taking the
// writer lock; its Tx rejects writes with ErrReadOnly.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}
