package model

// CounterKind distinguishes the two rate-limit tiers.
type CounterKind string

const (
	CounterKindTenant  CounterKind = "tenant"
	CounterKindAddress CounterKind = "address"
)

// MinuteCounter is a row in project_minute_counters: the unique key is
// (kind, key, minute_utc); count is monotonic within that minute.
type MinuteCounter struct {
	Kind      CounterKind
	Key       string
	MinuteUTC int64
	Count     int64
}

// FingerprintTracker is reserved for future alerting; not yet read by any
// query path but purged by maintenance (see maintenance.Task).
type FingerprintTracker struct {
	ProjectID     int64
	Fingerprint   string
	LastSeen      int64
	LastAlert     int64
	RollingMinute int64
	RollingCount  int64
}

// MaintenanceState is the singleton row guarding cross-instance maintenance
// contention.
type MaintenanceState struct {
	LastMaintenance int64
	InProgress      bool
}
