package domain

import (
	"fmt"
	"regexp"
)

var versionLabelPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateVersionLabel checks a user-chosen version label against the allowed
// character set. Labels are embedded in storage keys and comparisons, so the
// set is deliberately narrow.
func ValidateVersionLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: label is empty", ErrInvalidVersionLabel)
	}
	if !versionLabelPattern.MatchString(label) {
		return fmt.Errorf("%w: %q may only contain letters, digits, underscores and hyphens", ErrInvalidVersionLabel, label)
	}
	return nil
}
