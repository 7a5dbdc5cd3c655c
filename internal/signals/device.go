package signals

import (
	"context"
	"runtime"

	"github.com/torosent/webvitals/internal/metrics"
)

const mib = 1 << 20

// DeviceInfo reports the host's CPU count and the memory obtained by the runtime.
type DeviceInfo struct{}

func (DeviceInfo) Name() string { return "device-info" }
func (DeviceInfo) Phase() Phase  { return PhaseImmediate }

func (DeviceInfo) Start(_ context.Context, env Env) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	env.Report(metrics.NewRecord(MetricDeviceCPUCount, float64(runtime.NumCPU())))
	env.Report(metrics.NewRecord(MetricDeviceMemory, float64(ms.Sys)/mib))
}

// NavigationTiming reports the time from the clock origin to the page load.
type NavigationTiming struct{}

func (NavigationTiming) Name() string { return MetricNavigationTiming }
func (NavigationTiming) Phase() Phase { return PhaseAfterLoad }

func (NavigationTiming) Start(_ context.Context, env Env) {
	if env.Clock == nil {
		return
	}
	env.Report(metrics.NewRecord(MetricNavigationTiming, env.Clock.Now()))
}
