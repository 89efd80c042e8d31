package ingest

import (
	"crypto/sha1" //nolint:gosec
	"encoding/hex"
	"testing"
	"time"

	"github.com/akave-ai/akavelog/internal/model"
)

func TestDayID(t *testing.T) {
	got := dayID(time.Date(2026, 8, 6, 23, 59, 0, 0, time.UTC))
	if got != 20260806 {
		t.Fatalf("dayID() = %d, want 20260806", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate kept short string unchanged, got %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcde" {
		t.Fatalf("truncate() = %q, want %q", got, "abcde")
	}
}

func TestDerive_FillsDefaults(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	e := model.LogEvent{Level: "error", Message: "boom"}

	row, err := Derive(e, 7, "acme", now)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if row.Source != "acme" {
		t.Errorf("Source = %q, want tenant slug fallback %q", row.Source, "acme")
	}
	if row.Env != "production" {
		t.Errorf("Env = %q, want default %q", row.Env, "production")
	}
	if row.Ts != now {
		t.Errorf("Ts = %v, want fallback to now %v", row.Ts, now)
	}
	if row.DayID != 20260806 {
		t.Errorf("DayID = %d, want 20260806", row.DayID)
	}
	if row.ProjectID != 7 {
		t.Errorf("ProjectID = %d, want 7", row.ProjectID)
	}
	sum := sha1.Sum([]byte("boom||")) //nolint:gosec
	wantFingerprint := hex.EncodeToString(sum[:])[:fingerprintLen]
	if row.Fingerprint != wantFingerprint {
		t.Errorf("Fingerprint = %q, want %q (raw event.source, not the slug-defaulted source)", row.Fingerprint, wantFingerprint)
	}
}

func TestDerive_HonorsExplicitFields(t *testing.T) {
	now := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)
	ts := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	e := model.LogEvent{
		Ts:      ts.Format(time.RFC3339),
		Level:   "warn",
		Message: "x",
		Source:  "worker-1",
		Env:     "staging",
	}

	row, err := Derive(e, 1, "acme", now)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if !row.Ts.Equal(ts) {
		t.Errorf("Ts = %v, want client-supplied %v", row.Ts, ts)
	}
	if row.Source != "worker-1" {
		t.Errorf("Source = %q, want %q", row.Source, "worker-1")
	}
	if row.Env != "staging" {
		t.Errorf("Env = %q, want %q", row.Env, "staging")
	}
	// day_id follows the server clock (now), not the client ts.
	if row.DayID != 20260806 {
		t.Errorf("DayID = %d, want 20260806 (server clock, not client ts)", row.DayID)
	}
}

func TestDerive_TruncatesOversizedFields(t *testing.T) {
	now := time.Now()
	longMsg := make([]byte, 2000)
	for i := range longMsg {
		longMsg[i] = 'a'
	}
	e := model.LogEvent{Level: "info", Message: string(longMsg)}

	row, err := Derive(e, 1, "acme", now)
	if err != nil {
		t.Fatalf("Derive() error = %v", err)
	}
	if len(row.Message) != 1024 {
		t.Errorf("len(Message) = %d, want 1024", len(row.Message))
	}
}
