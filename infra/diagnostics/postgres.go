package diagnostics

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	core "github.com/kilianp07/matchcast/core/diagnostics"
)

type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists entries to a shared PostgreSQL table so several
// instances can be inspected from one place.
type PostgresStore struct {
	db    pgConn
	close func()
}

// NewPostgresStore connects with dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PostgresStore{db: pool, close: pool.Close}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS diagnostics (
        id BIGSERIAL PRIMARY KEY,
        ts TIMESTAMPTZ NOT NULL,
        request_id TEXT,
        component TEXT,
        team TEXT,
        entry JSONB NOT NULL
    )`,
		`CREATE INDEX IF NOT EXISTS diagnostics_request ON diagnostics (request_id)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

// Append writes the entry to the table.
func (s *PostgresStore) Append(ctx context.Context, e core.Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO diagnostics (ts, request_id, component, team, entry) VALUES ($1, $2, $3, $4, $5)`,
		e.Time, e.RequestID, e.Component, e.Team, b)
	return err
}

// Query returns entries matching q in insertion order.
func (s *PostgresStore) Query(ctx context.Context, q core.Query) ([]core.Entry, error) {
	query, args := buildPGQuery(q)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []core.Entry
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e core.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, fmt.Errorf("unmarshal entry: %w", err)
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func buildPGQuery(q core.Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if !q.Start.IsZero() {
		add("ts >= ?", q.Start)
	}
	if !q.End.IsZero() {
		add("ts <= ?", q.End)
	}
	if q.RequestID != "" {
		add("request_id = ?", q.RequestID)
	}
	if q.Component != "" {
		add("component = ?", q.Component)
	}
	if q.Team != "" {
		add("team = ?", q.Team)
	}
	query := `SELECT entry FROM diagnostics`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	return query + ` ORDER BY id`, args
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}
