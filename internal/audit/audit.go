// Package audit provides the append-only record of privileged
// state-changing actions. Entries are created when a privileged mutation
// completes and are never updated or deleted by this codebase.
package audit

import (
	"context"
	"strings"
	"time"

	"wardops.org/internal/ids"
	"wardops.org/internal/obs"
)

// Entry is one audit log record. Before/After snapshots are opaque
// structured state; writers must strip secrets before recording.
type Entry struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Action      string         `json:"action"`
	EntityName  string         `json:"entity_name"`
	EntityID    string         `json:"entity_id"`
	BeforeState map[string]any `json:"before_state,omitempty"`
	AfterState  map[string]any `json:"after_state,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// ListOptions controls pagination. Page is 1-based.
type ListOptions struct {
	Page     int
	PageSize int
}

func (o ListOptions) normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = 10
	}
	if o.PageSize > 100 {
		o.PageSize = 100
	}
	return o
}

// Store appends and lists immutable entries.
type Store interface {
	Append(ctx context.Context, e *Entry) error
	// List returns a page of entries newest first, plus the total count.
	List(ctx context.Context, opts ListOptions) ([]Entry, int, error)
}

// Recorder writes audit entries without ever failing the action that
// triggered them: append errors are logged and swallowed.
type Recorder struct {
	store Store
	now   func() time.Time
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

// Record fills in ID and timestamp and appends the entry. Failures are
// reported through the shared logger only.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	if r == nil || r.store == nil {
		return
	}
	if strings.TrimSpace(e.Action) == "" {
		return
	}
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	if err := r.store.Append(ctx, &e); err != nil {
		obs.LogEvent(map[string]any{
			"level":  "error",
			"msg":    "audit append failed",
			"action": e.Action,
			"error":  err.Error(),
		})
	}
}

// List returns a page of entries for the admin surface.
func (r *Recorder) List(ctx context.Context, opts ListOptions) ([]Entry, int, error) {
	return r.store.List(ctx, opts.normalize())
}
