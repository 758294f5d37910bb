// Package plugins links the built-in module implementations into the binary
// and reports what each registry offers.
package plugins

import (
	coremetrics "github.com/kilianp07/matchcast/core/metrics"
	"github.com/kilianp07/matchcast/core/publish"
	"github.com/kilianp07/matchcast/infra/diagnostics"
	_ "github.com/kilianp07/matchcast/infra/metrics"
	_ "github.com/kilianp07/matchcast/infra/mqtt"
	_ "github.com/kilianp07/matchcast/infra/nats"
)

// Kind names a registry of pluggable modules.
type Kind string

const (
	MetricsSinks       Kind = "metrics.sinks"
	Publishers         Kind = "publish.publishers"
	DiagnosticBackends Kind = "diagnostics.backend"
)

// Available lists the registered module types per registry.
func Available() map[Kind][]string {
	return map[Kind][]string{
		MetricsSinks:       coremetrics.SinkTypes(),
		Publishers:         publish.Types(),
		DiagnosticBackends: diagnostics.Backends(),
	}
}
