// Package metrics defines the sinks recording prediction activity. Sinks like
// PromSink and InfluxSink live in infra/metrics and register themselves in the
// sink registry; NewMetricsSink returns a MultiSink automatically when more
// than one sink is configured.
package metrics
