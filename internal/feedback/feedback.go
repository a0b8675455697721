// Package feedback is the citizen-feedback domain of the satellite service.
// It owns no identity data; callers are authenticated upstream by the
// central auth service.
package feedback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wardops.org/internal/auth"
	"wardops.org/internal/ids"
)

// Feedback statuses. A feedback moves from pending to responded exactly
// once; there is no further workflow.
const (
	StatusPending   = "pending"
	StatusResponded = "responded"
)

// Feedback is one citizen submission and, once an official answers, its
// response.
type Feedback struct {
	ID         string    `json:"id"`
	ResidentID string    `json:"resident_id,omitempty"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	Response   string    `json:"response,omitempty"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store persists feedback records.
type Store interface {
	Create(ctx context.Context, f *Feedback) error
	Find(ctx context.Context, id string) (*Feedback, error)
	List(ctx context.Context) ([]*Feedback, error)
	SetResponse(ctx context.Context, id, response string) error
}

const (
	titleMaxLen   = 200
	contentMaxLen = 4000
)

// Service implements the feedback operations over a Store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create records a new submission by the given user. residentID is the
// optional resident record the submission concerns.
func (s *Service) Create(ctx context.Context, createdBy, residentID, title, content string) (*Feedback, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || len(title) > titleMaxLen {
		return nil, fmt.Errorf("%w: title must be 1-%d characters", auth.ErrInvalidInput, titleMaxLen)
	}
	if content == "" || len(content) > contentMaxLen {
		return nil, fmt.Errorf("%w: content must be 1-%d characters", auth.ErrInvalidInput, contentMaxLen)
	}
	f := &Feedback{
		ID:         ids.New(),
		ResidentID: strings.TrimSpace(residentID),
		Title:      title,
		Content:    content,
		Status:     StatusPending,
		CreatedBy:  createdBy,
		CreatedAt:  s.now().UTC(),
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.store.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Get loads one feedback record.
func (s *Service) Get(ctx context.Context, id string) (*Feedback, error) {
	return s.store.Find(ctx, id)
}

// List returns every feedback record, newest first.
func (s *Service) List(ctx context.Context) ([]*Feedback, error) {
	return s.store.List(ctx)
}

// Respond records the official response and moves the record to responded.
// Responding twice is rejected.
func (s *Service) Respond(ctx context.Context, id, response string) (*Feedback, error) {
	response = strings.TrimSpace(response)
	if response == "" || len(response) > contentMaxLen {
		return nil, fmt.Errorf("%w: response must be 1-%d characters", auth.ErrInvalidInput, contentMaxLen)
	}
	f, err := s.store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status == StatusResponded {
		return nil, fmt.Errorf("%w: feedback already responded", auth.ErrInvalidInput)
	}
	if err := s.store.SetResponse(ctx, id, response); err != nil {
		return nil, err
	}
	return s.store.Find(ctx, id)
}
