package jobs

import (
	"context"
	"time"

	"anoa.com/dispatchhub/internal/modules/monitor"
)

// HealthCheckSpec fires every five minutes.
const HealthCheckSpec = "0 */5 * * * *"

// HealthCheckJob samples host metrics and lets the monitor decide whether
// anything is worth alerting on.
type HealthCheckJob struct {
	monitor *monitor.Monitor
}

func NewHealthCheckJob(m *monitor.Monitor) *HealthCheckJob {
	return &HealthCheckJob{monitor: m}
}

func (j *HealthCheckJob) Name() string { return "health_check" }

func (j *HealthCheckJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return j.monitor.Check(ctx)
}
