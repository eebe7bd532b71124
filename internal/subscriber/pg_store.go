package subscriber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/newsletter/internal/db/migrations"
	"github.com/dmitrymomot/newsletter/pkg/db"
)

// DBTX is the subset of pgxpool.Pool used by PgStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgStore persists subscribers in PostgreSQL.
type PgStore struct {
	db      DBTX
	migrate func(ctx context.Context) error
}

// NewPgStore creates a store backed by pool. migrationsTable names the goose
// version table.
func NewPgStore(pool *pgxpool.Pool, migrationsTable string, log *slog.Logger) *PgStore {
	return &PgStore{
		db: pool,
		migrate: func(ctx context.Context) error {
			return db.Migrate(ctx, pool, migrations.FS, migrationsTable, log)
		},
	}
}

const (
	insertSubscriber = `INSERT INTO subscribers (email) VALUES ($1) RETURNING id, email, created_at`
	listEmails       = `SELECT email FROM subscribers ORDER BY id`
	deleteByEmail    = `DELETE FROM subscribers WHERE email = $1`
)

// EnsureSchema applies pending migrations. Safe to call on every start.
func (s *PgStore) EnsureSchema(ctx context.Context) error {
	if err := s.migrate(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Insert adds email. A duplicate yields ErrConflict; uniqueness is enforced
// by the table constraint, so concurrent inserts of one address cannot both succeed.
func (s *PgStore) Insert(ctx context.Context, email string) (*Subscriber, error) {
	var sub Subscriber
	err := s.db.QueryRow(ctx, insertSubscriber, email).Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: constraint %s", ErrConflict, db.ConstraintName(err))
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &sub, nil
}

// ListEmails returns every email in insertion order. An empty table yields an empty slice.
func (s *PgStore) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, listEmails)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	if emails == nil {
		emails = []string{}
	}
	return emails, nil
}

// DeleteByEmail removes the row matching email exactly and reports whether one existed.
func (s *PgStore) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	tag, err := s.db.Exec(ctx, deleteByEmail, email)
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return tag.RowsAffected() > 0, nil
}
