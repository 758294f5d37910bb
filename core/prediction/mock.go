package prediction

import "github.com/kilianp07/matchcast/core/model"

// MockPredictor returns a configured report for every request.
type MockPredictor struct {
	Report model.Report
	Err    error
	Calls  []Request
}

// Predict records the request and returns the configured report or error.
func (m *MockPredictor) Predict(_ model.Dataset, req Request) (model.Report, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return model.Report{}, m.Err
	}
	r := m.Report
	r.Red.Teams = req.Red
	r.Blue.Teams = req.Blue
	return r, nil
}
