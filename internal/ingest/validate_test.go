package ingest

import (
	"testing"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/model"
)

func TestValidateBatch_Empty(t *testing.T) {
	err := ValidateBatch(nil, 250)
	ae, ok := apperr.As(err)
	if !ok || ae.Code != apperr.CodeInvalidEventData {
		t.Fatalf("ValidateBatch(nil) error = %v, want CodeInvalidEventData", err)
	}
}

func TestValidateBatch_TooMany(t *testing.T) {
	events := make([]model.LogEvent, 3)
	for i := range events {
		events[i] = model.LogEvent{Level: "info", Message: "ok"}
	}
	err := ValidateBatch(events, 2)
	ae, ok := apperr.As(err)
	if !ok || ae.Code != apperr.CodeTooManyEvents {
		t.Fatalf("ValidateBatch() error = %v, want CodeTooManyEvents", err)
	}
}

func TestValidateBatch_RejectsBadLevel(t *testing.T) {
	events := []model.LogEvent{{Level: "verbose", Message: "ok"}}
	err := ValidateBatch(events, 10)
	ae, ok := apperr.As(err)
	if !ok || ae.Code != apperr.CodeInvalidEventData {
		t.Fatalf("ValidateBatch() error = %v, want CodeInvalidEventData for bad level", err)
	}
}

func TestValidateBatch_RejectsMissingMessage(t *testing.T) {
	events := []model.LogEvent{{Level: "info"}}
	if err := ValidateBatch(events, 10); err == nil {
		t.Fatal("ValidateBatch() = nil, want error for missing message")
	}
}

func TestValidateBatch_Accepts(t *testing.T) {
	events := []model.LogEvent{{Level: "info", Message: "ok"}}
	if err := ValidateBatch(events, 10); err != nil {
		t.Fatalf("ValidateBatch() error = %v, want nil", err)
	}
}
