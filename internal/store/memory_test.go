package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryWriteAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	fields := map[string]any{"name": "Pencils", "qty": float64(12)}
	doc, err := m.Write(ctx, "widgets", "p-001", fields, true)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("timestamps were not stamped")
	}

	got, err := m.Get(ctx, "widgets", "p-001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got.Fields, fields) {
		t.Errorf("Fields = %#v, want %#v", got.Fields, fields)
	}
}

func TestMemoryGetNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "widgets", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryMergePreservesOtherFields(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Write(ctx, "widgets", "p-001", map[string]any{"name": "Pencils", "qty": float64(12)}, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := m.Write(ctx, "widgets", "p-001", map[string]any{"qty": float64(20)}, true); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := m.Get(ctx, "widgets", "p-001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := map[string]any{"name": "Pencils", "qty": float64(20)}
	if !reflect.DeepEqual(got.Fields, want) {
		t.Errorf("Fields = %#v, want %#v", got.Fields, want)
	}
}

func TestMemoryReplaceClobbersDocument(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Write(ctx, "widgets", "p-001", map[string]any{"name": "Pencils", "qty": float64(12)}, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := m.Write(ctx, "widgets", "p-001", map[string]any{"qty": float64(20)}, false); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := m.Get(ctx, "widgets", "p-001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := map[string]any{"qty": float64(20)}
	if !reflect.DeepEqual(got.Fields, want) {
		t.Errorf("Fields = %#v, want %#v", got.Fields, want)
	}
}

// TestMemoryMergeIdempotence: writing the same document twice with merge
// yields the same final state as writing it once.
func TestMemoryMergeIdempotence(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	fields := map[string]any{"name": "Pencils", "qty": float64(12), "active": true}
	if _, err := m.Write(ctx, "widgets", "p-001", fields, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	first, _ := m.Get(ctx, "widgets", "p-001")

	if _, err := m.Write(ctx, "widgets", "p-001", fields, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	second, _ := m.Get(ctx, "widgets", "p-001")

	if !reflect.DeepEqual(first.Fields, second.Fields) {
		t.Errorf("repeat write changed state: %#v vs %#v", first.Fields, second.Fields)
	}
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Error("creation timestamp changed on merge rewrite")
	}
}

func TestMemoryWriteCopiesCallerMap(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	fields := map[string]any{"name": "Pencils"}
	if _, err := m.Write(ctx, "widgets", "p-001", fields, true); err != nil {
		t.Fatalf("Write: %v", err)
	}
	fields["name"] = "mutated"

	got, _ := m.Get(ctx, "widgets", "p-001")
	if got.Fields["name"] != "Pencils" {
		t.Error("store shares the caller's map")
	}
}

func TestPath(t *testing.T) {
	if got := Path("widgets", "p-001"); got != "widgets/p-001" {
		t.Errorf("Path = %q", got)
	}
}
