package feedback

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wardops.org/internal/auth"
)

func TestCreateAndRespond(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u-citizen", "res-1", "Broken streetlight", "The light on Elm corner is out.")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != StatusPending {
		t.Fatalf("new feedback status %q", created.Status)
	}
	if created.ID == "" {
		t.Fatal("no id assigned")
	}

	responded, err := svc.Respond(ctx, created.ID, "Crew scheduled for Tuesday.")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if responded.Status != StatusResponded {
		t.Fatalf("status after respond %q", responded.Status)
	}
	if responded.Response != "Crew scheduled for Tuesday." {
		t.Fatalf("response %q", responded.Response)
	}

	// A second response is rejected.
	if _, err := svc.Respond(ctx, created.ID, "again"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("double respond: expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u-citizen", "", "", "content"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("empty title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "u-citizen", "", "title", ""); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("empty content: expected ErrInvalidInput, got %v", err)
	}
	long := strings.Repeat("x", 5000)
	if _, err := svc.Create(ctx, "u-citizen", "", "title", long); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("oversized content: expected ErrInvalidInput, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, "u-citizen", "", title, "content"); err != nil {
			t.Fatalf("Create %s: %v", title, err)
		}
	}
	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d", len(items))
	}
}

func TestGetMissing(t *testing.T) {
	svc := NewService(NewMemoryStore())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
