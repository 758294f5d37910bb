// Package publish defines how finished reports leave the process. Concrete
// publishers (MQTT, NATS) live under infra and register in the publisher
// registry.
package publish

import (
	"context"
	"errors"

	"github.com/kilianp07/matchcast/core/factory"
	"github.com/kilianp07/matchcast/core/model"
)

// DefaultTopic is the subject reports are published on when none is set.
const DefaultTopic = "matchcast/predictions"

// Publisher sends a finished report to an external consumer.
type Publisher interface {
	PublishReport(ctx context.Context, r model.Report) error
	Close() error
}

// Nop discards reports.
type Nop struct{}

func (Nop) PublishReport(context.Context, model.Report) error { return nil }
func (Nop) Close() error                                      { return nil }

var registry = factory.NewRegistry[Publisher]()

// Register adds a publisher factory under name.
func Register(name string, f factory.Factory[Publisher]) error {
	return registry.Register(name, f)
}

// Types lists registered publisher types.
func Types() []string { return registry.Names() }

// New builds the configured publishers. No configuration yields Nop.
func New(cfgs []factory.ModuleConfig) (Publisher, error) {
	if len(cfgs) == 0 {
		return Nop{}, nil
	}
	pubs := make(Multi, 0, len(cfgs))
	for _, c := range cfgs {
		p, err := registry.Create(c)
		if err != nil {
			_ = pubs.Close()
			return nil, err
		}
		pubs = append(pubs, p)
	}
	if len(pubs) == 1 {
		return pubs[0], nil
	}
	return pubs, nil
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) PublishReport(ctx context.Context, r model.Report) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishReport(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
