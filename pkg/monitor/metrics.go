package monitor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/racelytics/f1-analysis-service-go/log"
)

// registers observable gauges against the global meter provider; without a
// configured provider these are no-ops
func (m *Monitor) setupMetrics() {
	meter := otel.GetMeterProvider().Meter(
		fmt.Sprintf("f1analysis.monitor.%s", m.name))
	register := func(metricName, desc, unit string, valueProvider func() int64) {
		if _, err := meter.Int64ObservableGauge(
			metricName,
			metric.WithDescription(desc),
			metric.WithUnit(unit),
			metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
				o.Observe(valueProvider(),
					metric.WithAttributes(attribute.String("name", m.name)))
				return nil
			})); err != nil {
			m.l.Error("failed to register metric",
				log.String("metric", metricName),
				log.ErrorField(err))
		}
	}
	type data struct {
		name  string
		desc  string
		unit  string
		value func() int64
	}
	for _, d := range []*data{
		{
			"f1analysis.monitor.updates", "Number of successful polls", "{count}",
			func() int64 { return int64(m.TotalUpdates()) },
		},
		{
			"f1analysis.monitor.fetch_failures", "Number of failed polls", "{count}",
			func() int64 { m.mu.RLock(); defer m.mu.RUnlock(); return int64(m.fetchFailures) },
		},
		{
			"f1analysis.monitor.history", "Number of retained snapshots", "{count}",
			func() int64 { return int64(m.HistorySize()) },
		},
		{
			"f1analysis.monitor.subscribers", "Number of subscribers", "{count}",
			func() int64 { m.mu.RLock(); defer m.mu.RUnlock(); return int64(len(m.subs)) },
		},
	} {
		register(d.name, d.desc, d.unit, d.value)
	}
}
