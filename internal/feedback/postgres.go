package feedback

import (
	"context"
	"database/sql"
	"errors"

	"wardops.org/internal/auth"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const feedbackColumns = `id, resident_id, title, content, status, response, created_by, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, f *Feedback) error {
	_, err := s.db.ExecContext(ctx,
		`insert into feedbacks(id, resident_id, title, content, status, response, created_by, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		f.ID, f.ResidentID, f.Title, f.Content, f.Status, f.Response, f.CreatedBy, f.CreatedAt, f.UpdatedAt,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Feedback, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+feedbackColumns+` from feedbacks where id=$1`, id)
	return scanFeedback(row)
}

func (s *PGStore) List(ctx context.Context) ([]*Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+feedbackColumns+` from feedbacks order by created_at desc, id desc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *PGStore) SetResponse(ctx context.Context, id, response string) error {
	res, err := s.db.ExecContext(ctx,
		`update feedbacks set response=$2, status=$3, updated_at=now() where id=$1`,
		id, response, StatusResponded)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return auth.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row rowScanner) (*Feedback, error) {
	var f Feedback
	err := row.Scan(&f.ID, &f.ResidentID, &f.Title, &f.Content, &f.Status, &f.Response, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}
