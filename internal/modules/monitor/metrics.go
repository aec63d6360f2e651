package monitor

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Metrics is one snapshot of host resource usage.
type Metrics struct {
	CPUUsage    float64    `json:"cpu_usage"`
	MemoryUsage float64    `json:"memory_usage"`
	MemoryFree  uint64     `json:"memory_free"`
	MemoryTotal uint64     `json:"memory_total"`
	DiskUsage   float64    `json:"disk_usage"`
	DiskFree    uint64     `json:"disk_free"`
	DiskTotal   uint64     `json:"disk_total"`
	LoadAverage [3]float64 `json:"load_average"`
	Hostname    string     `json:"hostname"`
}

// Sampler gathers a host metrics snapshot.
type Sampler interface {
	Sample(ctx context.Context) (*Metrics, error)
}

type systemSampler struct{}

// NewSystemSampler samples the local host through gopsutil.
func NewSystemSampler() Sampler {
	return systemSampler{}
}

func (systemSampler) Sample(ctx context.Context) (*Metrics, error) {
	// CPU usage needs two tick snapshots; the 1-second blocking interval
	// is deliberate and only ever suspends the health-check tick.
	cpuPercents, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return nil, err
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}

	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		MemoryUsage: vm.UsedPercent,
		MemoryFree:  vm.Available,
		MemoryTotal: vm.Total,
		DiskUsage:   du.UsedPercent,
		DiskFree:    du.Free,
		DiskTotal:   du.Total,
	}
	if len(cpuPercents) > 0 {
		m.CPUUsage = cpuPercents[0]
	}

	// Load average and hostname are decoration, not health signals.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		m.LoadAverage = [3]float64{avg.Load1, avg.Load5, avg.Load15}
	}
	if hostname, err := os.Hostname(); err == nil {
		m.Hostname = hostname
	}

	return m, nil
}
