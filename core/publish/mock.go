package publish

import (
	"context"
	"sync"

	"github.com/kilianp07/matchcast/core/model"
)

// MockPublisher records published reports. Err, when set, is returned from
// every PublishReport call.
type MockPublisher struct {
	Err error

	mu      sync.Mutex
	reports []model.Report
	closed  bool
}

func (m *MockPublisher) PublishReport(_ context.Context, r model.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.reports = append(m.reports, r)
	return nil
}

func (m *MockPublisher) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Reports returns a copy of the published reports.
func (m *MockPublisher) Reports() []model.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Report(nil), m.reports...)
}

// Closed reports whether Close was called.
func (m *MockPublisher) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
