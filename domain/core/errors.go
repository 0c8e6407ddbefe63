package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors abort engine construction
	ErrConfiguration         = errors.New("invalid engine configuration")
	ErrMissingAspect         = fmt.Errorf("%w: aspect is required", ErrConfiguration)
	ErrMissingAnnotation     = fmt.Errorf("%w: annotation source is required", ErrConfiguration)
	ErrMissingOntology       = fmt.Errorf("%w: category graph is required", ErrConfiguration)
	ErrInvalidPopulation     = fmt.Errorf("%w: population size must be >= 0", ErrConfiguration)
	ErrUnsupportedMode       = fmt.Errorf("%w: unsupported distribution mode", ErrConfiguration)
	ErrUnsupportedCorrection = fmt.Errorf("%w: unsupported correction strategy", ErrConfiguration)

	// Input errors are reported per call and leave the engine usable
	ErrInputSize = errors.New("query item count exceeds configured population size")

	// Lookup errors
	ErrCategoryNotFound = errors.New("category not found in graph")
	ErrRunNotFound      = errors.New("enrichment run not found")
)

// NewConfigurationError wraps ErrConfiguration with field context
func NewConfigurationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrConfiguration, field, reason)
}

// NewInputSizeError reports a query larger than the configured population
func NewInputSizeError(queried, population int) error {
	return fmt.Errorf("%w: %d items queried against population of %d", ErrInputSize, queried, population)
}

// Error checking helpers
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsInputSizeError(err error) bool {
	return errors.Is(err, ErrInputSize)
}
