package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingStore struct{}

func (failingStore) Append(context.Context, *Entry) error {
	return errors.New("disk full")
}

func (failingStore) List(context.Context, ListOptions) ([]Entry, int, error) {
	return nil, 0, errors.New("disk full")
}

func TestRecorderFillsIDAndTimestamp(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store)
	ctx := context.Background()

	rec.Record(ctx, Entry{UserID: "u-1", Action: "LOCK_USER", EntityName: "users", EntityID: "u-2"})

	entries, total, err := store.List(ctx, ListOptions{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 entry, got %d", total)
	}
	e := entries[0]
	if e.ID == "" {
		t.Fatal("entry ID not assigned")
	}
	if e.Timestamp.IsZero() {
		t.Fatal("timestamp not assigned")
	}
}

func TestRecorderSwallowsAppendFailure(t *testing.T) {
	rec := NewRecorder(failingStore{})
	// Must not panic and must not propagate the store error.
	rec.Record(context.Background(), Entry{Action: "LOCK_USER"})
}

func TestRecorderIgnoresEmptyAction(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store)
	rec.Record(context.Background(), Entry{UserID: "u-1"})

	_, total, err := store.List(context.Background(), ListOptions{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Fatalf("empty action recorded, total %d", total)
	}
}

func TestMemoryStorePagination(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		if err := store.Append(ctx, &Entry{
			ID:        string(rune('a' + i)),
			Action:    "CREATE_USER",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	page1, total, err := store.List(ctx, ListOptions{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}
	if len(page1) != 10 {
		t.Fatalf("page 1 size = %d, want 10", len(page1))
	}
	// Newest first.
	if !page1[0].Timestamp.After(page1[1].Timestamp) {
		t.Fatalf("entries not newest first: %v then %v", page1[0].Timestamp, page1[1].Timestamp)
	}

	page3, _, err := store.List(ctx, ListOptions{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(page3) != 5 {
		t.Fatalf("page 3 size = %d, want 5", len(page3))
	}

	empty, _, err := store.List(ctx, ListOptions{Page: 4, PageSize: 10})
	if err != nil {
		t.Fatalf("List page 4: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("page past the end should be empty, got %d", len(empty))
	}
}
