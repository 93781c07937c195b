package telemetry

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentPerfStats registers process gauges (cpu, heap, goroutines) that are sampled
// each time the meter provider collects. The registration is dropped once ctx is done.
func InstrumentPerfStats(ctx context.Context) {
	meter := otel.Meter("dramalist/perf_stats")

	cpuUsage, err1 := meter.Float64ObservableGauge("process.cpu.usage", metric.WithUnit("%"))
	heap, err2 := meter.Int64ObservableGauge("process.memory.heap", metric.WithUnit("By"))
	goroutines, err3 := meter.Int64ObservableGauge("process.goroutines")
	for _, err := range []error{err1, err2, err3} {
		if err != nil {
			slog.WarnContext(ctx, "failed to create perf gauge", "err", err)
			return
		}
	}

	registration, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		o.ObserveInt64(heap, int64(mem.HeapAlloc))
		o.ObserveInt64(goroutines, int64(runtime.NumGoroutine()))

		// 0 interval compares against the previous call
		percent, err := cpu.PercentWithContext(ctx, 0, false)
		if err != nil {
			slog.DebugContext(ctx, "failed to read cpu usage", "err", err)
			return nil
		}
		if len(percent) > 0 {
			o.ObserveFloat64(cpuUsage, percent[0])
		}
		return nil
	}, cpuUsage, heap, goroutines)
	if err != nil {
		slog.WarnContext(ctx, "failed to register perf stats", "err", err)
		return
	}

	go func() {
		<-ctx.Done()
		err := registration.Unregister()
		if err != nil {
			slog.Warn("failed to unregister perf stats", "err", err)
		}
	}()
}
