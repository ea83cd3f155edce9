// Package postgres provides the Postgres-backed url repository.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"pageanalyzer/internal/models"
	"pageanalyzer/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// Postgres error codes relevant to the url/check constraints.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store persists urls and url_checks in Postgres.
type Store struct {
	pool pgxPool
}

// New connects a Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool pgxPool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Migrate applies the embedded schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// CreateURL inserts name if absent and reports whether a row was created.
// Both the ON CONFLICT clause and the unique-violation fallback resolve a
// concurrent insert of the same name to the winning row.
func (s *Store) CreateURL(ctx context.Context, name string) (models.URL, bool, error) {
	const query = `
INSERT INTO urls (name)
VALUES ($1)
ON CONFLICT (name) DO NOTHING
RETURNING id, name, created_at`

	var u models.URL
	err := s.pool.QueryRow(ctx, query, name).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if err == nil {
		return u, true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) || isPgErr(err, codeUniqueViolation) {
		existing, lookupErr := s.GetURLByName(ctx, name)
		if lookupErr != nil {
			return models.URL{}, false, fmt.Errorf("lookup after conflict: %w", lookupErr)
		}
		return existing, false, nil
	}
	return models.URL{}, false, fmt.Errorf("insert url: %w", err)
}

// GetURLByID fetches one url row, returning storage.ErrNotFound on a miss.
func (s *Store) GetURLByID(ctx context.Context, id int64) (models.URL, error) {
	const query = `SELECT id, name, created_at FROM urls WHERE id = $1`

	var u models.URL
	err := s.pool.QueryRow(ctx, query, id).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.URL{}, storage.ErrNotFound
	}
	if err != nil {
		return models.URL{}, fmt.Errorf("get url by id: %w", err)
	}
	return u, nil
}

// GetURLByName fetches one url row by its unique name.
func (s *Store) GetURLByName(ctx context.Context, name string) (models.URL, error) {
	const query = `SELECT id, name, created_at FROM urls WHERE name = $1`

	var u models.URL
	err := s.pool.QueryRow(ctx, query, name).Scan(&u.ID, &u.Name, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.URL{}, storage.ErrNotFound
	}
	if err != nil {
		return models.URL{}, fmt.Errorf("get url by name: %w", err)
	}
	return u, nil
}

// ListURLs returns all urls ordered by id, each joined with its latest check.
// Ties on created_at are broken by the higher check id.
func (s *Store) ListURLs(ctx context.Context) ([]models.URLSummary, error) {
	const query = `
SELECT u.id, u.name, c.created_at, c.status_code
FROM urls u
LEFT JOIN LATERAL (
	SELECT created_at, status_code
	FROM url_checks
	WHERE url_id = u.id
	ORDER BY created_at DESC, id DESC
	LIMIT 1
) c ON true
ORDER BY u.id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	defer rows.Close()

	var summaries []models.URLSummary
	for rows.Next() {
		var sum models.URLSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.LastCheckedAt, &sum.LastStatusCode); err != nil {
			return nil, fmt.Errorf("scan url summary: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list urls rows: %w", err)
	}
	return summaries, nil
}

// ListChecks returns the check history for a url, oldest first.
func (s *Store) ListChecks(ctx context.Context, urlID int64) ([]models.Check, error) {
	const query = `
SELECT id, url_id, status_code, h1, title, description, created_at
FROM url_checks
WHERE url_id = $1
ORDER BY id`

	rows, err := s.pool.Query(ctx, query, urlID)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	var checks []models.Check
	for rows.Next() {
		var c models.Check
		if err := rows.Scan(&c.ID, &c.URLID, &c.StatusCode, &c.H1, &c.Title, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checks rows: %w", err)
	}
	return checks, nil
}

// CreateCheck appends one check row for an existing url. A foreign-key
// violation maps to storage.ErrNotFound.
func (s *Store) CreateCheck(ctx context.Context, check models.Check) (models.Check, error) {
	const query = `
INSERT INTO url_checks (url_id, status_code, h1, title, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, query,
		check.URLID,
		check.StatusCode,
		check.H1,
		check.Title,
		check.Description,
	).Scan(&check.ID, &check.CreatedAt)
	if isPgErr(err, codeForeignKeyViolation) {
		return models.Check{}, fmt.Errorf("url %d: %w", check.URLID, storage.ErrNotFound)
	}
	if err != nil {
		return models.Check{}, fmt.Errorf("insert check: %w", err)
	}
	return check, nil
}

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
