package logger

import "github.com/kilianp07/matchcast/core/diagnostics"

// Logger exposes logging methods for common severity levels.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DiagnosticsLogger mirrors diagnostic entries to a Logger at debug level.
type DiagnosticsLogger struct {
	Log Logger
}

// Collect implements diagnostics.Collector.
func (d DiagnosticsLogger) Collect(e diagnostics.Entry) {
	fields := make(map[string]any, len(e.Fields)+3)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields["diag_component"] = e.Component
	if e.Team != "" {
		fields["team"] = e.Team
	}
	if e.RequestID != "" {
		fields["request_id"] = e.RequestID
	}
	d.Log.Debugw(e.Message, fields)
}

// Tee fans every entry out to each collector in order.
type Tee []diagnostics.Collector

// Collect implements diagnostics.Collector.
func (t Tee) Collect(e diagnostics.Entry) {
	for _, c := range t {
		if c != nil {
			c.Collect(e)
		}
	}
}
