// Package diagnostics carries the per-request diagnostic trail of the
// prediction engine. Components never write to a process wide sink; callers
// hand them a Collector and decide afterwards where the entries go.
package diagnostics
