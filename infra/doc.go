// Package infra groups the adapters that talk to the outside world: dataset
// sources, diagnostics stores, metrics sinks and report publishers. Each
// subpackage implements an interface owned by core and registers itself in
// the matching factory registry.
package infra
