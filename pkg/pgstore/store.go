package pgstore

import (
	"context"
	"embed"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tenantkit/pkg/feature"
	"github.com/dmitrymomot/tenantkit/pkg/rbac"
	"github.com/dmitrymomot/tenantkit/svc/tenant"
)

var (
	_ tenant.Repository[*tenant.Tenant] = (*Store)(nil)
	_ feature.SettingStore              = (*Store)(nil)
	_ feature.EditionStore              = (*Store)(nil)
	_ rbac.PermissionStore              = (*Store)(nil)
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations holds the goose migrations of the schema.
var Migrations fs.FS = mustSub(migrations, "migrations")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL store. It is safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

// New creates a Store on pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// InTx runs fn with a Store bound to a transaction. The transaction commits
// when fn returns nil. Nested calls use savepoints.
func (s *Store) InTx(ctx context.Context, fn func(*Store) error) error {
	run := func(tx pgx.Tx) error { return fn(&Store{pool: s.pool, db: tx}) }
	if outer, ok := s.db.(pgx.Tx); ok {
		return pgx.BeginFunc(ctx, outer, run)
	}
	return pgx.BeginFunc(ctx, s.pool, run)
}
