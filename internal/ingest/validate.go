package ingest

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/akave-ai/akavelog/internal/apperr"
	"github.com/akave-ai/akavelog/internal/model"
)

var validate = validator.New()

// ValidateBatch enforces the batch-level and per-event constraints of spec
// §4.5: length in [1, maxEvents], and each event against the LogEvent
// schema. Validation failure surfaces as a single error describing the
// first offending event, per spec.
func ValidateBatch(events []model.LogEvent, maxEvents int) error {
	if len(events) == 0 {
		return apperr.New(apperr.CodeInvalidEventData, "events must contain at least one entry")
	}
	if len(events) > maxEvents {
		return apperr.New(apperr.CodeTooManyEvents, fmt.Sprintf("batch contains %d events, limit is %d", len(events), maxEvents))
	}
	for i, e := range events {
		if err := validate.Struct(e); err != nil {
			return apperr.Wrap(apperr.CodeInvalidEventData, fmt.Sprintf("event %d is invalid", i), err)
		}
	}
	return nil
}
