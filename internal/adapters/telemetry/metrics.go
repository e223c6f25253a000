package telemetry

import (
	"context"
	"maps"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.trai.ch/zerr"
)

var attributeEncoder = attribute.DefaultEncoder()

// Metrics owns the process meter provider and reads its counters back on demand.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
}

// NewMetrics creates a meter provider backed by a manual reader.
func NewMetrics() *Metrics {
	reader := sdkmetric.NewManualReader()
	return &Metrics{
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
		reader:   reader,
	}
}

// Meter returns a named meter.
func (m *Metrics) Meter(name string) metric.Meter {
	return m.provider.Meter(name)
}

// Counter is one integer sum with its attribute set rendered as a suffix.
type Counter struct {
	Name  string
	Value int64
}

// Counters collects every integer sum recorded so far, sorted by name.
func (m *Metrics) Counters(ctx context.Context) ([]Counter, error) {
	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, zerr.Wrap(err, "failed to collect metrics")
	}

	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				name := md.Name
				if enc := dp.Attributes.Encoded(attributeEncoder); enc != "" {
					name += "{" + enc + "}"
				}
				totals[name] += dp.Value
			}
		}
	}

	counters := make([]Counter, 0, len(totals))
	for _, name := range slices.Sorted(maps.Keys(totals)) {
		counters = append(counters, Counter{Name: name, Value: totals[name]})
	}
	return counters, nil
}

// Shutdown flushes and stops the provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
