package maintenance

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeTask struct {
	mu sync.Mutex

	inProgress bool
	since      time.Time

	beginCalls int
	endCalls   int

	purgeAddressCalls int
	purgeTenantCalls  int
	purgeRetention    int
	purgeFingerprints int
}

func (f *fakeTask) PurgeAddressCounters(_ context.Context, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgeAddressCalls++
	return nil
}

func (f *fakeTask) PurgeTenantActivityCounters(_ context.Context, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgeTenantCalls++
	return nil
}

func (f *fakeTask) PurgeRetention(_ context.Context, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgeRetention++
	return nil
}

func (f *fakeTask) PurgeIdleFingerprints(_ context.Context, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purgeFingerprints++
	return nil
}

func (f *fakeTask) TryBeginMaintenance(_ context.Context, force bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inProgress && !force {
		return false, nil
	}
	f.beginCalls++
	f.inProgress = true
	f.since = time.Now()
	return true, nil
}

func (f *fakeTask) EndMaintenance(_ context.Context, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls++
	f.inProgress = false
	f.since = time.Time{}
	return nil
}

func (f *fakeTask) MaintenanceInProgressSince(_ context.Context) (bool, time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inProgress, f.since, nil
}

func (f *fakeTask) snapshot() fakeTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeTask{
		beginCalls:        f.beginCalls,
		endCalls:          f.endCalls,
		purgeAddressCalls: f.purgeAddressCalls,
		purgeTenantCalls:  f.purgeTenantCalls,
		purgeRetention:    f.purgeRetention,
		purgeFingerprints: f.purgeFingerprints,
	}
}

func waitForEnd(t *testing.T, task *fakeTask, wantEndCalls int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if task.snapshot().endCalls >= wantEndCalls {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d EndMaintenance calls, got %d", wantEndCalls, task.snapshot().endCalls)
}

func TestScheduler_TriggerAsync_RunsAllSteps(t *testing.T) {
	task := &fakeTask{}
	s := New(task)

	s.TriggerAsync(time.Now())
	waitForEnd(t, task, 1)

	snap := task.snapshot()
	if snap.beginCalls != 1 || snap.endCalls != 1 {
		t.Fatalf("snapshot = %+v, want begin=1 end=1", &snap)
	}
	if snap.purgeAddressCalls != 1 || snap.purgeTenantCalls != 1 || snap.purgeRetention != 1 || snap.purgeFingerprints != 1 {
		t.Fatalf("snapshot = %+v, want every step run exactly once", &snap)
	}
}

func TestScheduler_TriggerAsync_GatedWithinInterval(t *testing.T) {
	task := &fakeTask{}
	s := New(task)

	now := time.Now()
	s.TriggerAsync(now)
	waitForEnd(t, task, 1)

	s.TriggerAsync(now.Add(time.Minute))
	time.Sleep(50 * time.Millisecond)

	if snap := task.snapshot(); snap.beginCalls != 1 {
		t.Fatalf("beginCalls = %d, want 1 (second trigger within 5 minutes should be gated)", snap.beginCalls)
	}
}

func TestScheduler_TriggerAsync_RunsAgainAfterInterval(t *testing.T) {
	task := &fakeTask{}
	s := New(task)

	now := time.Now()
	s.TriggerAsync(now)
	waitForEnd(t, task, 1)

	s.TriggerAsync(now.Add(6 * time.Minute))
	waitForEnd(t, task, 2)

	if snap := task.snapshot(); snap.beginCalls != 2 {
		t.Fatalf("beginCalls = %d, want 2 after the gate interval elapses", snap.beginCalls)
	}
}

func TestScheduler_TriggerNow_BypassesGate(t *testing.T) {
	task := &fakeTask{}
	s := New(task)

	now := time.Now()
	s.TriggerAsync(now)
	waitForEnd(t, task, 1)

	s.TriggerNow(now.Add(time.Second))
	waitForEnd(t, task, 2)

	if snap := task.snapshot(); snap.beginCalls != 2 {
		t.Fatalf("beginCalls = %d, want 2 (TriggerNow must bypass the 5-minute gate)", snap.beginCalls)
	}
}

func TestScheduler_SkipsWhenAnotherInstanceHoldsTheFlag(t *testing.T) {
	task := &fakeTask{inProgress: true, since: time.Now()}
	s := New(task)

	s.TriggerAsync(time.Now())
	time.Sleep(50 * time.Millisecond)

	if snap := task.snapshot(); snap.beginCalls != 0 {
		t.Fatalf("beginCalls = %d, want 0 while another instance holds in_progress", snap.beginCalls)
	}
}

func TestScheduler_CrashRecoveryForceClears(t *testing.T) {
	stale := time.Now().Add(-11 * time.Minute)
	task := &fakeTask{inProgress: true, since: stale}
	s := New(task)

	s.TriggerAsync(time.Now())
	waitForEnd(t, task, 1)

	if snap := task.snapshot(); snap.beginCalls != 1 {
		t.Fatalf("beginCalls = %d, want 1 (stale in_progress older than crash window must be force-cleared)", snap.beginCalls)
	}
}
