package variant

import (
	"errors"
	"fmt"
)

// Request validation bounds.
const (
	MinVariants = 1
	MaxVariants = 30

	MinTemperature float32 = 0.0
	MaxTemperature float32 = 2.0
)

// Validation and outcome sentinels.
var (
	// ErrNoContent indicates the request content is empty or whitespace.
	ErrNoContent = errors.New("content is empty")

	// ErrNoInstruction indicates the request has no rewrite instruction.
	ErrNoInstruction = errors.New("instruction is empty")

	// ErrVariantCount indicates the requested count is outside [MinVariants, MaxVariants].
	ErrVariantCount = fmt.Errorf("variant count must be between %d and %d", MinVariants, MaxVariants)

	// ErrTemperature indicates the temperature is outside [MinTemperature, MaxTemperature].
	ErrTemperature = fmt.Errorf("temperature must be between %g and %g", MinTemperature, MaxTemperature)

	// ErrNoVariants indicates every variant failed with transient errors.
	ErrNoVariants = errors.New("no variants produced")
)

// ChunkError wraps a chunk-level failure with its position so callers can
// see which part of a large article could not be rewritten. It unwraps to
// the underlying error, so fatality checks pass through.
type ChunkError struct {
	// Index is the zero-based chunk position; Total the chunk count.
	Index int
	Total int

	Err error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d/%d failed: %v", e.Index+1, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error { return e.Err }

// ValidateCount checks a variant count against the request bounds.
func ValidateCount(n int) error {
	if n < MinVariants || n > MaxVariants {
		return fmt.Errorf("%w: got %d", ErrVariantCount, n)
	}
	return nil
}

// ValidateTemperature checks a sampling temperature against the request bounds.
func ValidateTemperature(t float32) error {
	if t < MinTemperature || t > MaxTemperature {
		return fmt.Errorf("%w: got %g", ErrTemperature, t)
	}
	return nil
}
