package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// Alert thresholds for the periodic check.
	resourceAlertThreshold = 80.0
	diskAlertThreshold     = 90.0

	// Degraded thresholds for the detailed health endpoint.
	cpuHealthyBelow  = 90.0
	memHealthyBelow  = 90.0
	diskHealthyBelow = 95.0

	alertCooldown = 15 * time.Minute
)

// HealthStatus classifies a metrics snapshot for the detailed endpoint.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusDegraded HealthStatus = "degraded"
)

// Monitor periodically inspects host metrics and raises alerts with a
// per-category cooldown so a sustained condition does not flood the channel.
type Monitor struct {
	sampler Sampler
	sender  Sender
	log     zerolog.Logger

	mu                sync.Mutex
	lastResourceAlert time.Time
	lastDiskAlert     time.Time

	now func() time.Time
}

func New(sampler Sampler, sender Sender, log zerolog.Logger) *Monitor {
	return &Monitor{
		sampler: sampler,
		sender:  sender,
		log:     log.With().Str("component", "monitor").Logger(),
		now:     time.Now,
	}
}

// Metrics returns a fresh snapshot for the health endpoints.
func (m *Monitor) Metrics(ctx context.Context) (*Metrics, error) {
	return m.sampler.Sample(ctx)
}

// Status classifies a snapshot against the degraded thresholds.
func Status(metrics *Metrics) HealthStatus {
	if metrics.CPUUsage < cpuHealthyBelow &&
		metrics.MemoryUsage < memHealthyBelow &&
		metrics.DiskUsage < diskHealthyBelow {
		return StatusHealthy
	}
	return StatusDegraded
}

// Check takes one snapshot and raises any due alerts. It fails only when
// sampling fails; alert delivery failures are logged and dropped.
func (m *Monitor) Check(ctx context.Context) error {
	metrics, err := m.sampler.Sample(ctx)
	if err != nil {
		return fmt.Errorf("sample host metrics: %w", err)
	}

	m.log.Debug().
		Float64("cpu", metrics.CPUUsage).
		Float64("memory", metrics.MemoryUsage).
		Float64("disk", metrics.DiskUsage).
		Msg("health check")

	if metrics.CPUUsage >= resourceAlertThreshold || metrics.MemoryUsage >= resourceAlertThreshold {
		if m.due(&m.lastResourceAlert) {
			m.alert(ctx, fmt.Sprintf(
				"[%s] resource usage high: CPU %.1f%%, memory %.1f%% (load %.2f %.2f %.2f)",
				metrics.Hostname, metrics.CPUUsage, metrics.MemoryUsage,
				metrics.LoadAverage[0], metrics.LoadAverage[1], metrics.LoadAverage[2],
			))
		}
	}

	if metrics.DiskUsage >= diskAlertThreshold {
		if m.due(&m.lastDiskAlert) {
			m.alert(ctx, fmt.Sprintf(
				"[%s] disk usage high: %.1f%% used, %d bytes free",
				metrics.Hostname, metrics.DiskUsage, metrics.DiskFree,
			))
		}
	}

	return nil
}

// Notify sends a one-off message outside the cooldown bookkeeping,
// e.g. the startup announcement.
func (m *Monitor) Notify(ctx context.Context, text string) {
	m.alert(ctx, text)
}

// due reports whether the category's cooldown has elapsed and, if so,
// stamps it.
func (m *Monitor) due(last *time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if !last.IsZero() && now.Sub(*last) < alertCooldown {
		return false
	}
	*last = now
	return true
}

func (m *Monitor) alert(ctx context.Context, text string) {
	if err := m.sender.Send(ctx, text); err != nil {
		m.log.Error().Err(err).Msg("failed to deliver alert")
		return
	}
	m.log.Info().Str("text", text).Msg("alert sent")
}
