package classifier

import "errors"

var (
	// ErrNoTrainingData is returned when a training pass receives no samples
	// or no labels; an empty model must never be produced silently.
	ErrNoTrainingData = errors.New("classifier: no training data")

	// ErrInvalidThreshold is returned when a decision threshold falls
	// outside [0, 1].
	ErrInvalidThreshold = errors.New("classifier: threshold must be in [0, 1]")
)
