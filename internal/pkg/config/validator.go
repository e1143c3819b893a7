package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidateDuration validates that a duration lies within [min, max].
//
// Example:
//
//	// Per-request timeout between 1s and 10m
//	err := ValidateDuration(60*time.Second, time.Second, 10*time.Minute)
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}

	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}

	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}

	return nil
}

// ValidateIntRange validates that an integer lies within [min, max].
//
// Use cases:
//   - Pagination bound (1-1,000,000 pages)
//   - Batch parallelism (1-32 sources)
//   - Port numbers (1-65535)
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}

	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}

	return nil
}

// ValidateFloatRange validates that a number lies within [min, max].
func ValidateFloatRange(value, min, max float64) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%g) cannot be greater than max (%g)", min, max)
	}

	if value < min {
		return fmt.Errorf("value %g is below minimum %g", value, min)
	}

	if value > max {
		return fmt.Errorf("value %g exceeds maximum %g", value, max)
	}

	return nil
}

// ValidatePositiveDuration validates that a duration is strictly positive.
// A zero duration would mean "no bound", which the harvester never allows.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}

	return nil
}

// ValidateMetadataPrefix validates an OAI-PMH metadataPrefix.
// Prefixes are bare tokens such as "oai_dc" or "marcxml" and must not
// carry whitespace or query syntax.
func ValidateMetadataPrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("metadata prefix cannot be empty")
	}

	if strings.ContainsAny(prefix, " \t\r\n&?=#/") {
		return fmt.Errorf("metadata prefix %q must be a bare token", prefix)
	}

	return nil
}
