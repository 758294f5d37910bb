package diagnostics

import (
	"context"
	"sync"
	"time"
)

// Entry is one diagnostic observation.
type Entry struct {
	Time      time.Time      `json:"time"`
	RequestID string         `json:"request_id,omitempty"`
	Component string         `json:"component"`
	Team      string         `json:"team,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Collector receives diagnostic entries. Implementations must not block.
type Collector interface {
	Collect(e Entry)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Collect(Entry) {}

// OrNop returns c, or Nop when c is nil.
func OrNop(c Collector) Collector {
	if c == nil {
		return Nop{}
	}
	return c
}

// Query filters stored entries.
type Query struct {
	Start     time.Time
	End       time.Time
	RequestID string
	Component string
	Team      string
}

// Match reports whether e satisfies the query.
func (q Query) Match(e Entry) bool {
	if !q.Start.IsZero() && e.Time.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && e.Time.After(q.End) {
		return false
	}
	if q.RequestID != "" && e.RequestID != q.RequestID {
		return false
	}
	if q.Component != "" && e.Component != q.Component {
		return false
	}
	if q.Team != "" && e.Team != q.Team {
		return false
	}
	return true
}

// Store persists entries and supports querying.
type Store interface {
	Append(ctx context.Context, e Entry) error
	Query(ctx context.Context, q Query) ([]Entry, error)
	Close() error
}

// Buffer accumulates entries in memory for one request.
type Buffer struct {
	mu        sync.Mutex
	requestID string
	now       func() time.Time
	entries   []Entry
}

// NewBuffer returns an empty Buffer stamping entries with requestID.
func NewBuffer(requestID string) *Buffer {
	return &Buffer{requestID: requestID, now: time.Now}
}

// Collect implements Collector.
func (b *Buffer) Collect(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.Time.IsZero() {
		e.Time = b.now()
	}
	if e.RequestID == "" {
		e.RequestID = b.requestID
	}
	b.entries = append(b.entries, e)
}

// Entries returns a copy of the collected entries.
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of collected entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Flush appends every collected entry to s and clears the buffer. Entries
// that fail to persist are kept for a later attempt.
func (b *Buffer) Flush(ctx context.Context, s Store) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if err := s.Append(ctx, e); err != nil {
			b.entries = b.entries[i:]
			return err
		}
	}
	b.entries = nil
	return nil
}
