// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package storetest holds behaviour tests shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/danielhkuo/cycle-vote/store"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Run exercises st through the store.Store contract. newStore must return an
// empty store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, newStore(t)) })
	t.Run("SetGet", func(t *testing.T) { testSetGet(t, newStore(t)) })
	t.Run("SetMembership", func(t *testing.T) { testSetMembership(t, newStore(t)) })
	t.Run("RollbackOnError", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("ViewIsReadOnly", func(t *testing.T) { testViewReadOnly(t, newStore(t)) })
	t.Run("ClearSet", func(t *testing.T) { testClearSet(t, newStore(t)) })
	t.Run("ConcurrentIncrements", func(t *testing.T) { testConcurrentIncrements(t, newStore(t)) })
}

func testGetMissing(t *testing.T, st store.Store) {
	ctx := context.Background()
	err := st.View(ctx, func(tx store.Tx) error {
		var r record
		return tx.Get(ctx, "missing", &r)
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func testSetGet(t *testing.T, st store.Store) {
	ctx := context.Background()
	err := st.Update(ctx, func(tx store.Tx) error {
		if err := tx.Set(ctx, "k", record{Name: "a", Count: 1}); err != nil {
			return err
		}
		// Reads inside the same transaction see staged writes
		var r record
		if err := tx.Get(ctx, "k", &r); err != nil {
			return err
		}
		if r.Count != 1 {
			return fmt.Errorf("staged read: got count %d", r.Count)
		}
		return tx.Set(ctx, "k", record{Name: "a", Count: 2})
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var got record
	err = st.View(ctx, func(tx store.Tx) error {
		return tx.Get(ctx, "k", &got)
	})
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("Expected {a 2}, got %+v", got)
	}
}

func testSetMembership(t *testing.T, st store.Store) {
	ctx := context.Background()
	err := st.Update(ctx, func(tx store.Tx) error {
		added, err := tx.SetAdd(ctx, "s", "alice")
		if err != nil {
			return err
		}
		if !added {
			return errors.New("first add reported existing member")
		}
		added, err = tx.SetAdd(ctx, "s", "alice")
		if err != nil {
			return err
		}
		if added {
			return errors.New("second add reported new member")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	tests := []struct {
		member string
		want   bool
	}{
		{"alice", true},
		{"Alice", false}, // members are case-sensitive
		{"bob", false},
	}
	for _, tt := range tests {
		var got bool
		err := st.View(ctx, func(tx store.Tx) error {
			var err error
			got, err = tx.SetContains(ctx, "s", tt.member)
			return err
		})
		if err != nil {
			t.Fatalf("View failed: %v", err)
		}
		if got != tt.want {
			t.Errorf("SetContains(%q) = %v, want %v", tt.member, got, tt.want)
		}
	}
}

func testRollback(t *testing.T, st store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.Update(ctx, func(tx store.Tx) error {
		if err := tx.Set(ctx, "k", record{Count: 7}); err != nil {
			return err
		}
		if _, err := tx.SetAdd(ctx, "s", "alice"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected fn error to be returned, got %v", err)
	}

	err = st.View(ctx, func(tx store.Tx) error {
		var r record
		if err := tx.Get(ctx, "k", &r); !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("record survived rollback: %v", err)
		}
		ok, err := tx.SetContains(ctx, "s", "alice")
		if err != nil {
			return err
		}
		if ok {
			return errors.New("set member survived rollback")
		}
		return nil
	})
	if err != nil {
		t.Error(err)
	}
}

func testViewReadOnly(t *testing.T, st store.Store) {
	ctx := context.Background()
	err := st.View(ctx, func(tx store.Tx) error {
		return tx.Set(ctx, "k", record{})
	})
	if !errors.Is(err, store.ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly, got %v", err)
	}
}

func testClearSet(t *testing.T, st store.Store) {
	ctx := context.Background()
	err := st.Update(ctx, func(tx store.Tx) error {
		for _, m := range []string{"a", "b"} {
			if _, err := tx.SetAdd(ctx, "s", m); err != nil {
				return err
			}
		}
		_, err := tx.SetAdd(ctx, "other", "a")
		return err
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	err = st.Update(ctx, func(tx store.Tx) error {
		if err := tx.SetClear(ctx, "s"); err != nil {
			return err
		}
		// Re-adding after a clear in the same transaction is a new member
		added, err := tx.SetAdd(ctx, "s", "b")
		if err != nil {
			return err
		}
		if !added {
			return errors.New("member still present after clear")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	want := map[string]map[string]bool{
		"s":     {"a": false, "b": true},
		"other": {"a": true},
	}
	for setKey, members := range want {
		for member, expected := range members {
			var got bool
			st.View(ctx, func(tx store.Tx) error {
				got, _ = tx.SetContains(ctx, setKey, member)
				return nil
			})
			if got != expected {
				t.Errorf("SetContains(%q, %q) = %v, want %v", setKey, member, got, expected)
			}
		}
	}
}

func testConcurrentIncrements(t *testing.T, st store.Store) {
	ctx := context.Background()
	const workers = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- st.Update(ctx, func(tx store.Tx) error {
				var r record
				if err := tx.Get(ctx, "counter", &r); err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}
				r.Count++
				return tx.Set(ctx, "counter", r)
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	var r record
	if err := st.View(ctx, func(tx store.Tx) error { return tx.Get(ctx, "counter", &r) }); err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if r.Count != workers {
		t.Errorf("Expected %d increments, got %d (lost update)", workers, r.Count)
	}
}
