package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/matchcast/core/metrics"
	"github.com/kilianp07/matchcast/infra/logger"
	"github.com/kilianp07/matchcast/internal/eventbus"
)

// StartEventCollector subscribes to the prediction bus and records every
// event on sink. It stops when the context is canceled or the bus closes.
// The returned channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[coremetrics.PredictionEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log = logger.OrNop(log)
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordPrediction(ev); err != nil {
					log.Warnf("record prediction %s: %v", ev.ReportID, err)
				}
			}
		}
	}()
	return done
}
