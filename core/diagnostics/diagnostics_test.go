package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	entries []Entry
	failAt  int
}

func (m *memStore) Append(_ context.Context, e Entry) error {
	if m.failAt > 0 && len(m.entries) == m.failAt {
		return errors.New("store full")
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memStore) Query(_ context.Context, q Query) ([]Entry, error) {
	var out []Entry
	for _, e := range m.entries {
		if q.Match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }

func TestBuffer_StampsEntries(t *testing.T) {
	b := NewBuffer("req-1")
	b.now = func() time.Time { return time.Unix(100, 0) }
	b.Collect(Entry{Component: "profile", Message: "team not found", Team: "254"})

	got := b.Entries()
	require.Len(t, got, 1)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.Equal(t, time.Unix(100, 0), got[0].Time)
}

func TestBuffer_FlushKeepsFailedEntries(t *testing.T) {
	b := NewBuffer("req")
	for i := 0; i < 3; i++ {
		b.Collect(Entry{Component: "c", Message: "m"})
	}
	store := &memStore{failAt: 2}
	err := b.Flush(context.Background(), store)
	require.Error(t, err)
	assert.Len(t, store.entries, 2)
	assert.Equal(t, 1, b.Len())

	store.failAt = 0
	require.NoError(t, b.Flush(context.Background(), store))
	assert.Len(t, store.entries, 3)
	assert.Equal(t, 0, b.Len())
}

func TestQuery_Match(t *testing.T) {
	e := Entry{Time: time.Unix(50, 0), RequestID: "r", Component: "teleop", Team: "1"}
	cases := []struct {
		name string
		q    Query
		want bool
	}{
		{"empty", Query{}, true},
		{"component", Query{Component: "teleop"}, true},
		{"other component", Query{Component: "auto"}, false},
		{"before start", Query{Start: time.Unix(60, 0)}, false},
		{"after end", Query{End: time.Unix(40, 0)}, false},
		{"team", Query{Team: "2"}, false},
		{"request", Query{RequestID: "r"}, true},
	}
	for _, c := range cases {
		if got := c.q.Match(e); got != c.want {
			t.Errorf("%s: expected %v got %v", c.name, c.want, got)
		}
	}
}

func TestOrNop(t *testing.T) {
	assert.IsType(t, Nop{}, OrNop(nil))
	b := NewBuffer("x")
	assert.Same(t, b, OrNop(b))
}
