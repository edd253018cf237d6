// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store. Writes are staged per transaction and only
// applied when the transaction function succeeds.
type Memory struct {
	writer sync.Mutex // serializes Update

	mu   sync.RWMutex // guards kv and sets
	kv   map[string][]byte
	sets map[string]map[string]struct{}
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		kv:   make(map[string][]byte),
		sets: make(map[string]map[string]struct{}),
	}
}

func (m *Memory) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.writer.Lock()
	defer m.writer.Unlock()

	tx := newMemTx(m, true)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tx.commit()
	return nil
}

func (m *Memory) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(newMemTx(m, false))
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) Close() error {
	return nil
}

type memTx struct {
	m        *Memory
	writable bool

	kv      map[string][]byte
	added   map[string]map[string]struct{}
	cleared map[string]bool
}

func newMemTx(m *Memory, writable bool) *memTx {
	return &memTx{
		m:        m,
		writable: writable,
		kv:       make(map[string][]byte),
		added:    make(map[string]map[string]struct{}),
		cleared:  make(map[string]bool),
	}
}

func (tx *memTx) Get(ctx context.Context, key string, v interface{}) error {
	b, ok := tx.kv[key]
	if !ok {
		tx.m.mu.RLock()
		b, ok = tx.m.kv[key]
		tx.m.mu.RUnlock()
	}
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (tx *memTx) Set(ctx context.Context, key string, v interface{}) error {
	if !tx.writable {
		return ErrReadOnly
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	tx.kv[key] = b
	return nil
}

func (tx *memTx) SetContains(ctx context.Context, setKey, member string) (bool, error) {
	if _, ok := tx.added[setKey][member]; ok {
		return true, nil
	}
	if tx.cleared[setKey] {
		return false, nil
	}

	tx.m.mu.RLock()
	_, ok := tx.m.sets[setKey][member]
	tx.m.mu.RUnlock()
	return ok, nil
}

func (tx *memTx) SetAdd(ctx context.Context, setKey, member string) (bool, error) {
	if !tx.writable {
		return false, ErrReadOnly
	}
	exists, err := tx.SetContains(ctx, setKey, member)
	if err != nil || exists {
		return false, err
	}

	if tx.added[setKey] == nil {
		tx.added[setKey] = make(map[string]struct{})
	}
	tx.added[setKey][member] = struct{}{}
	return true, nil
}

func (tx *memTx) SetClear(ctx context.Context, setKey string) error {
	if !tx.writable {
		return ErrReadOnly
	}
	tx.cleared[setKey] = true
	delete(tx.added, setKey)
	return nil
}

func (tx *memTx) commit() {
	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()

	for key, b := range tx.kv {
		tx.m.kv[key] = b
	}
	for setKey := range tx.cleared {
		delete(tx.m.sets, setKey)
	}
	for setKey, members := range tx.added {
		set := tx.m.sets[setKey]
		if set == nil {
			set = make(map[string]struct{})
			tx.m.sets[setKey] = set
		}
		for member := range members {
			set[member] = struct{}{}
		}
	}
}
