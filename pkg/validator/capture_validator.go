// Package validator checks capture batches before they reach the differencer
// or the store. Validation failures are recoverable caller errors, reported
// through the domain sentinel errors, never silently coerced.
package validator

import (
	"fmt"

	"github.com/paramtrail/paramtrail/internal/domain"
)

// ValidationError describes one rejected entity within a batch.
type ValidationError struct {
	TrackID string `json:"trackId,omitempty"`
	Message string `json:"message"`
}

// ValidationResult collects all batch-level validation failures.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors"`
}

// ValidateCapture checks a capture request's version label and entity states.
// It returns the first structural error (so callers can classify it with
// errors.Is) together with the full per-entity result for display.
func ValidateCapture(versionLabel string, states []domain.EntityState) (ValidationResult, error) {
	result := ValidationResult{IsValid: true, Errors: []ValidationError{}}

	if err := domain.ValidateVersionLabel(versionLabel); err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
		return result, err
	}

	var firstErr error
	seen := make(map[string]struct{}, len(states))
	for i, state := range states {
		if state.TrackID == "" {
			result.IsValid = false
			err := fmt.Errorf("%w: entity at index %d", domain.ErrMissingTrackID, i)
			result.Errors = append(result.Errors, ValidationError{Message: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if _, dup := seen[state.TrackID]; dup {
			result.IsValid = false
			err := fmt.Errorf("%w: %s", domain.ErrDuplicateTrackID, state.TrackID)
			result.Errors = append(result.Errors, ValidationError{TrackID: state.TrackID, Message: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		seen[state.TrackID] = struct{}{}

		if err := domain.ValidateEntityKind(state.Kind); err != nil {
			result.IsValid = false
			result.Errors = append(result.Errors, ValidationError{TrackID: state.TrackID, Message: err.Error()})
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return result, firstErr
}
