package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func userRows(u *User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "password_hash", "role", "scope_id", "active", "created_at", "updated_at",
	}).AddRow(u.ID, u.Username, u.PasswordHash, string(u.Role), u.ScopeID, u.Active, time.Now(), time.Now())
}

func TestPGUserStoreFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	want := &User{ID: "u-1", Username: "admin", PasswordHash: "x", Role: RoleAdmin, ScopeID: "", Active: true}
	mock.ExpectQuery("select .* from users where id=").
		WithArgs("u-1").
		WillReturnRows(userRows(want))

	store := NewPGUserStore(db)
	got, err := store.Find(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Username != "admin" || got.Role != RoleAdmin {
		t.Fatalf("unexpected user %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGUserStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select .* from users where id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "password_hash", "role", "scope_id", "active", "created_at", "updated_at",
		}))

	store := NewPGUserStore(db)
	if _, err := store.Find(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGUserStoreFindByUsernameCaseInsensitive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	want := &User{ID: "u-1", Username: "admin", PasswordHash: "x", Role: RoleAdmin, Active: true}
	mock.ExpectQuery(`select .* from users where lower\(username\)=lower`).
		WithArgs("ADMIN").
		WillReturnRows(userRows(want))

	store := NewPGUserStore(db)
	got, err := store.FindByUsername(context.Background(), "ADMIN")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected user %+v", got)
	}
}

func TestPGUserStoreCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into users").
		WithArgs(sqlmock.AnyArg(), "admin", "digest", "admin", "", true).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	store := NewPGUserStore(db)
	err = store.Create(context.Background(), &User{
		Username: "admin", PasswordHash: "digest", Role: RoleAdmin, Active: true,
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPGUserStoreSetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("update users set active=").
		WithArgs("u-1", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("update users set active=").
		WithArgs("missing", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGUserStore(db)
	if err := store.SetActive(context.Background(), "u-1", false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := store.SetActive(context.Background(), "missing", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGUserStoreUpdatePartial(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	role := RoleWardLeader
	mock.ExpectExec("update users set").
		WithArgs("u-1", "to_truong", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPGUserStore(db)
	if err := store.Update(context.Background(), "u-1", UserUpdate{Role: &role}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
