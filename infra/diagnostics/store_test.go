package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/kilianp07/matchcast/core/diagnostics"
	"github.com/kilianp07/matchcast/core/factory"
)

func sampleEntries(base time.Time) []core.Entry {
	return []core.Entry{
		{Time: base, RequestID: "a", Component: "prediction", Team: "254", Message: "team not found in data"},
		{Time: base.Add(time.Second), RequestID: "a", Component: "profile.auto", Team: "1678", Message: "built", Fields: map[string]any{"matches": 3}},
		{Time: base.Add(2 * time.Second), RequestID: "b", Component: "prediction", Message: "match predicted"},
	}
}

func exerciseStore(t *testing.T, s core.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for _, e := range sampleEntries(base) {
		require.NoError(t, s.Append(ctx, e))
	}

	all, err := s.Query(ctx, core.Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "team not found in data", all[0].Message)
	assert.True(t, all[0].Time.Equal(base))
	assert.Equal(t, float64(3), all[1].Fields["matches"])

	byReq, err := s.Query(ctx, core.Query{RequestID: "a", Component: "prediction"})
	require.NoError(t, err)
	require.Len(t, byReq, 1)
	assert.Equal(t, "254", byReq[0].Team)

	windowed, err := s.Query(ctx, core.Query{Start: base.Add(500 * time.Millisecond), End: base.Add(1500 * time.Millisecond)})
	require.NoError(t, err)
	require.Len(t, windowed, 1)
	assert.Equal(t, "1678", windowed[0].Team)
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "nested", "diag.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestJSONLStoreSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.jsonl")
	s, err := NewJSONLStore(path)
	require.NoError(t, err)
	out, err := scanEntries(context.Background(), strings.NewReader("not json\n{\"component\":\"x\",\"message\":\"ok\"}\n"), core.Query{}, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].Message)
	assert.NoError(t, s.Close())
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "diag.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.jsonl")
	s, err := NewRotatingJSONLStore(path, 1, 3, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	big := strings.Repeat("x", 200*1024)
	for i := 0; i < 8; i++ {
		require.NoError(t, s.Append(context.Background(), core.Entry{Component: "bulk", Message: big}))
	}
	files, err := s.files()
	require.NoError(t, err)
	assert.Greater(t, len(files), 1, "expected rotated backups")

	out, err := s.Query(context.Background(), core.Query{Component: "bulk"})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "diag.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestBufferFlushIntoSQLite(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "diag.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	buf := core.NewBuffer("req-9")
	buf.Collect(core.Entry{Component: "teleop", Message: "alliance simulated"})
	require.NoError(t, buf.Flush(context.Background(), s))
	assert.Zero(t, buf.Len())

	out, err := s.Query(context.Background(), core.Query{RequestID: "req-9"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "teleop", out[0].Component)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Config{})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(Config{Enabled: true, Path: filepath.Join(dir, "a.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)
	_ = s.Close()

	s, err = Open(Config{Enabled: true, Backend: "jsonl", Path: filepath.Join(dir, "b.jsonl"), MaxSizeMB: 5})
	require.NoError(t, err)
	assert.IsType(t, &RotatingJSONLStore{}, s)
	_ = s.Close()

	s, err = Open(Config{Enabled: true, Backend: "sqlite", Path: filepath.Join(dir, "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	_ = s.Close()

	_, err = Open(Config{Enabled: true, Backend: "redis"})
	assert.True(t, errors.Is(err, factory.ErrUnknownType))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Backend: "bogus"}.Validate())
	assert.Error(t, Config{Enabled: true, Backend: "bogus"}.Validate())
	assert.Error(t, Config{Enabled: true, Backend: "jsonl", MaxBackups: -1}.Validate())

	c := Config{Backend: "sqlite"}
	c.SetDefaults()
	assert.Equal(t, "diagnostics.db", c.Path)
}

func TestBuildPGQuery(t *testing.T) {
	q, args := buildPGQuery(core.Query{})
	if q != `SELECT entry FROM diagnostics ORDER BY id` || len(args) != 0 {
		t.Fatalf("unexpected empty query %q %v", q, args)
	}
	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	q, args = buildPGQuery(core.Query{Start: start, RequestID: "r1", Team: "254"})
	want := `SELECT entry FROM diagnostics WHERE ts >= $1 AND request_id = $2 AND team = $3 ORDER BY id`
	if q != want {
		t.Fatalf("query = %q", q)
	}
	if len(args) != 3 || args[1] != "r1" || args[2] != "254" {
		t.Fatalf("args = %v", args)
	}
}

type execRecorder struct {
	stmts []string
	args  [][]any
}

func (r *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	r.args = append(r.args, args)
	return pgconn.CommandTag{}, nil
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func TestPostgresStoreAppend(t *testing.T) {
	rec := &execRecorder{}
	s := &PostgresStore{db: rec}
	if err := s.migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	e := core.Entry{Time: time.Now().UTC(), RequestID: "r1", Component: "profile", Team: "971", Message: "no matches"}
	if err := s.Append(context.Background(), e); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(rec.stmts) != 3 {
		t.Fatalf("expected 2 schema statements and 1 insert, got %d", len(rec.stmts))
	}
	args := rec.args[2]
	if args[1] != "r1" || args[2] != "profile" || args[3] != "971" {
		t.Fatalf("insert args = %v", args)
	}
	var stored core.Entry
	if err := json.Unmarshal(args[4].([]byte), &stored); err != nil || stored.Message != "no matches" {
		t.Fatalf("stored entry %+v (%v)", stored, err)
	}
	if _, err := s.Query(context.Background(), core.Query{}); err == nil {
		t.Fatalf("expected query error from recorder")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	if _, err := Open(Config{Enabled: true, Backend: "postgres"}); err == nil {
		t.Fatalf("expected dsn error")
	}
}
