package audit

import (
	"context"
	"database/sql"
	"encoding/json"
)

// PGStore implements Store on PostgreSQL. Inserts are append-only; no
// update or delete statement exists in this package.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Append(ctx context.Context, e *Entry) error {
	before, _ := json.Marshal(e.BeforeState)
	after, _ := json.Marshal(e.AfterState)
	_, err := s.db.ExecContext(ctx,
		`insert into audit_logs(id, user_id, action, entity_name, entity_id, before_state, after_state, created_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		e.ID, e.UserID, e.Action, e.EntityName, e.EntityID, before, after, e.Timestamp,
	)
	return err
}

func (s *PGStore) List(ctx context.Context, opts ListOptions) ([]Entry, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `select count(*) from audit_logs`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`select id, user_id, action, entity_name, entity_id, before_state, after_state, created_at
		 from audit_logs order by created_at desc, id desc limit $1 offset $2`,
		opts.PageSize, (opts.Page-1)*opts.PageSize,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e             Entry
			before, after []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityName, &e.EntityID, &before, &after, &e.Timestamp); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal(before, &e.BeforeState)
		_ = json.Unmarshal(after, &e.AfterState)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
