package agent

import (
	"context"
	"time"

	"github.com/example/chirp/internal/observability"
)

// Metrics is a point-in-time snapshot of the agent's health.
type Metrics struct {
	AgentName      string         `json:"agent_name"`
	DailyPostCount int            `json:"daily_post_count"`
	MaxDailyPosts  int            `json:"max_daily_posts"`
	UptimeSeconds  float64        `json:"uptime_seconds"`
	GPUStatus      map[string]any `json:"gpu_status,omitempty"`
	Billing        map[string]any `json:"billing,omitempty"`
}

// Snapshot collects the metrics, including GPU status and billing when a
// compute client is attached. Compute failures degrade to missing fields.
func (a *Agent) Snapshot(ctx context.Context) Metrics {
	log := observability.LoggerFromContext(ctx)

	m := Metrics{
		AgentName:      a.character.Name,
		DailyPostCount: a.tracker.DailyPostCount(),
		MaxDailyPosts:  a.tracker.MaxDailyPosts(),
	}
	if !a.startedAt.IsZero() {
		m.UptimeSeconds = time.Since(a.startedAt).Seconds()
	}

	if a.compute == nil {
		return m
	}

	if status, err := a.compute.GPUStatus(ctx); err == nil {
		m.GPUStatus = status
	} else {
		log.Warn("failed to fetch GPU status", "error", err)
	}

	if billing, err := a.compute.BillingHistory(ctx); err == nil {
		m.Billing = billing
	} else {
		log.Warn("failed to fetch billing history", "error", err)
	}

	return m
}

// ReleaseCompute returns the rented GPU, if any. Called on shutdown.
func (a *Agent) ReleaseCompute(ctx context.Context) {
	if a.compute == nil {
		return
	}
	if err := a.compute.Release(ctx); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to release GPU", "error", err)
	}
}
