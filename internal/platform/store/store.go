// Package store provides the optional Postgres backend used to persist
// mined repository records alongside the CSV exports
package store

import (
	"context"

	perr "edgeminer/internal/platform/errors"
	"edgeminer/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config selects and configures the backend
type Config struct {
	// Enabled gates the whole backend; when false Open returns a nil-PG Store
	Enabled bool

	// URL is the postgres connection string
	URL string

	// MaxConns caps the pool size; the miner is single threaded so small is fine
	MaxConns int32
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier is the read and write surface services use for sql
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// Store is the facade over the optional backend
// zero value is safe but does nothing
type Store struct {
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG Querier

	pool *pgxpool.Pool
}

// Open constructs a Store; a disabled config yields a Store with nil PG
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	s := &Store{Log: log}
	if !cfg.Enabled {
		return s, nil
	}

	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "parse postgres url")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "open postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "ping postgres")
	}

	s.pool = pool
	s.PG = pgAdapter{pool: pool}
	s.Log.Debug().Msg("postgres store opened")
	return s, nil
}

// Close releases the pool; safe on a disabled store
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// pgAdapter narrows *pgxpool.Pool to the Querier seam
type pgAdapter struct{ pool *pgxpool.Pool }

func (a pgAdapter) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := a.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeDB, "exec failed")
	}
	return tag.RowsAffected(), nil
}

func (a pgAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "query failed")
	}
	return pgRows{rows: rows}, nil
}

func (a pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return a.pool.QueryRow(ctx, sql, args...)
}

type pgRows struct{ rows pgx.Rows }

func (r pgRows) Next() bool             { return r.rows.Next() }
func (r pgRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r pgRows) Err() error             { return r.rows.Err() }
func (r pgRows) Close()                 { r.rows.Close() }
