// internal/templates/postgres.go
package templates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresStore persists templates in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pgx pool against connString and verifies it with
// a ping.
func ConnectPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the templates table if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	q := `
	CREATE TABLE IF NOT EXISTS templates (
		id        uuid PRIMARY KEY,
		name      text NOT NULL UNIQUE,
		segments  text[] NOT NULL
	)
	`
	_, err := s.pool.Exec(ctx, q)
	return err
}

// Close releases the connection pool.
func (s *PostgresStore) Close() { s.pool.Close() }

// Create inserts a template row. With force set, any existing row under the
// same name is deleted first, inside the same transaction.
func (s *PostgresStore) Create(ctx context.Context, tpl *Template, force bool) error {
	if tpl.ID == uuid.Nil {
		tpl.ID = uuid.New()
	}
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if force {
			if _, err := tx.Exec(ctx, `DELETE FROM templates WHERE name = $1`, tpl.Name); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO templates (id, name, segments) VALUES ($1, $2, $3)`,
			tpl.ID, tpl.Name, tpl.Segments,
		)
		return err
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrExists
	}
	return err
}

// Get fetches one template by name.
func (s *PostgresStore) Get(ctx context.Context, name string) (*Template, error) {
	var tpl Template
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, segments FROM templates WHERE name = $1`, name,
	).Scan(&tpl.ID, &tpl.Name, &tpl.Segments)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// List returns every stored template, ordered by name.
func (s *PostgresStore) List(ctx context.Context) ([]Template, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, segments FROM templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tpls []Template
	for rows.Next() {
		var tpl Template
		if err := rows.Scan(&tpl.ID, &tpl.Name, &tpl.Segments); err != nil {
			return nil, err
		}
		tpls = append(tpls, tpl)
	}
	return tpls, rows.Err()
}
