// Package postgres implements the repository interfaces over PostgreSQL
// (pgx stdlib driver) with goose-managed schema migrations.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"alcyxob/donation-share/internal/repository"
	"alcyxob/donation-share/internal/repository/postgres/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL-backed repository.Store.
type Store struct {
	db        *sql.DB
	users     *UserRepository
	donations *DonationRepository
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return NewStore(db), nil
}

// NewStore binds the repositories to an already opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		users:     NewUserRepository(db),
		donations: NewDonationRepository(db),
	}
}

func (s *Store) Users() repository.UserRepository         { return s.users }
func (s *Store) Donations() repository.DonationRepository { return s.donations }

// gooseUp is a seam for testing goose.UpContext.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// EnsureSchema applies the embedded migrations.
func (s *Store) EnsureSchema(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUp(ctx, s.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
