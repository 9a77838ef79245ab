package telemetry

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/wolfeidau/assetbuild"
)

// Metrics holds the OpenTelemetry instruments recorded by builds
type Metrics struct {
	// Resolve metrics
	ResolveTotal       metric.Int64Counter
	ResolveErrorsTotal metric.Int64Counter

	// Build metrics
	BuildsTotal       metric.Int64Counter
	BuildErrorsTotal  metric.Int64Counter
	BuildDuration     metric.Float64Histogram
	OutputFilesTotal  metric.Int64Counter
	OutputBytesTotal  metric.Int64Counter
	CompressedBytes   metric.Int64Counter
	DevServerRebuilds metric.Int64Counter
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton Metrics instance, initializing it if necessary.
// Instruments bind to the global meter provider, which is a no-op until
// InitTelemetry installs an exporter.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

// Tracer returns the tracer used for build spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(instrumentationName)

	m := &Metrics{}

	m.ResolveTotal, _ = meter.Int64Counter(
		"assetbuild.resolve.total",
		metric.WithDescription("Total number of build definitions resolved"),
		metric.WithUnit("{spec}"),
	)

	m.ResolveErrorsTotal, _ = meter.Int64Counter(
		"assetbuild.resolve.errors.total",
		metric.WithDescription("Total number of build definitions rejected"),
		metric.WithUnit("{error}"),
	)

	m.BuildsTotal, _ = meter.Int64Counter(
		"assetbuild.builds.total",
		metric.WithDescription("Total number of bundler runs"),
		metric.WithUnit("{build}"),
	)

	m.BuildErrorsTotal, _ = meter.Int64Counter(
		"assetbuild.builds.errors.total",
		metric.WithDescription("Total number of bundler runs that reported errors"),
		metric.WithUnit("{error}"),
	)

	m.BuildDuration, _ = meter.Float64Histogram(
		"assetbuild.builds.duration",
		metric.WithDescription("Duration of bundler runs"),
		metric.WithUnit("ms"),
	)

	m.OutputFilesTotal, _ = meter.Int64Counter(
		"assetbuild.outputs.files.total",
		metric.WithDescription("Total number of files emitted"),
		metric.WithUnit("{file}"),
	)

	m.OutputBytesTotal, _ = meter.Int64Counter(
		"assetbuild.outputs.bytes.total",
		metric.WithDescription("Total bytes emitted"),
		metric.WithUnit("By"),
	)

	m.CompressedBytes, _ = meter.Int64Counter(
		"assetbuild.outputs.compressed.bytes.total",
		metric.WithDescription("Total bytes written as precompressed variants"),
		metric.WithUnit("By"),
	)

	m.DevServerRebuilds, _ = meter.Int64Counter(
		"assetbuild.devserver.rebuilds.total",
		metric.WithDescription("Total number of dev server rebuilds"),
		metric.WithUnit("{build}"),
	)

	return m
}
