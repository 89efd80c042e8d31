// Package maintenance implements the on-path housekeeping scheduler: a
// process-local clock gates how often a maintenance pass is spawned, and a
// store-wide flag guards multi-instance contention.
package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// triggerInterval is the minimum gap between maintenance triggers within
// one process: if less than this has elapsed since the last trigger, a
// new one is skipped.
const triggerInterval = 5 * time.Minute

// crashRecoveryWindow is how long in_progress may stay true before the
// next trigger force-clears it, on the assumption the holder crashed.
const crashRecoveryWindow = 10 * time.Minute

// Task is the narrow store dependency Scheduler runs each pass against.
// Every method is independently best-effort: a failing step is logged and
// does not abort the remaining steps.
type Task interface {
	PurgeAddressCounters(ctx context.Context, now time.Time) error
	PurgeTenantActivityCounters(ctx context.Context, now time.Time) error
	PurgeRetention(ctx context.Context, now time.Time) error
	PurgeIdleFingerprints(ctx context.Context, now time.Time) error

	// TryBeginMaintenance atomically claims the store-wide in_progress
	// flag. ok is false if another instance already holds it (unless
	// force is set, for crash recovery).
	TryBeginMaintenance(ctx context.Context, force bool) (ok bool, err error)
	EndMaintenance(ctx context.Context, at time.Time) error
	MaintenanceInProgressSince(ctx context.Context) (inProgress bool, since time.Time, err error)
}

// Scheduler gates and spawns maintenance passes. Safe for concurrent use;
// lastTriggeredAt is guarded by mu.
type Scheduler struct {
	task Task

	mu              sync.Mutex
	lastTriggeredAt time.Time

	// runTimeout bounds each pass's total duration, independent of the
	// request that triggered it (maintenance is fire-and-forget).
	runTimeout time.Duration
}

// New builds a Scheduler over task, with zero lastTriggeredAt so the first
// successful ingest always triggers a pass.
func New(task Task) *Scheduler {
	return &Scheduler{task: task, runTimeout: 30 * time.Second}
}

// TriggerAsync must be called after a successful ingest. It enforces
// triggerInterval and never blocks on the maintenance pass itself.
func (s *Scheduler) TriggerAsync(now time.Time) {
	s.mu.Lock()
	if !s.lastTriggeredAt.IsZero() && now.Sub(s.lastTriggeredAt) < triggerInterval {
		s.mu.Unlock()
		return
	}
	s.lastTriggeredAt = now
	s.mu.Unlock()

	go s.run(now)
}

// TriggerNow bypasses the 5-minute gate and spawns a pass unconditionally.
// Used by the admin maintenance-run route, not by the ingest path.
func (s *Scheduler) TriggerNow(now time.Time) {
	s.mu.Lock()
	s.lastTriggeredAt = now
	s.mu.Unlock()

	go s.run(now)
}

// run executes one maintenance pass, tolerating individual-step failure.
func (s *Scheduler) run(triggeredAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	force := false
	if inProgress, since, err := s.task.MaintenanceInProgressSince(ctx); err == nil && inProgress {
		if triggeredAt.Sub(since) > crashRecoveryWindow {
			force = true
		} else {
			return
		}
	}

	ok, err := s.task.TryBeginMaintenance(ctx, force)
	if err != nil {
		log.Error().Err(err).Msg("maintenance: begin failed")
		return
	}
	if !ok {
		return
	}
	defer func() {
		if err := s.task.EndMaintenance(ctx, time.Now()); err != nil {
			log.Error().Err(err).Msg("maintenance: end failed")
		}
	}()

	now := time.Now()
	steps := []struct {
		name string
		fn   func(context.Context, time.Time) error
	}{
		{"purge_address_counters", s.task.PurgeAddressCounters},
		{"purge_tenant_activity_counters", s.task.PurgeTenantActivityCounters},
		{"purge_retention", s.task.PurgeRetention},
		{"purge_idle_fingerprints", s.task.PurgeIdleFingerprints},
	}
	for _, step := range steps {
		if err := step.fn(ctx, now); err != nil {
			log.Error().Err(err).Str("step", step.name).Msg("maintenance step failed")
		}
	}
}
