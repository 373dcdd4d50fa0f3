package encoder

import "github.com/pkg/errors"

// All failures of the encoder are fatal: any of these errors indicates
// malformed input or an internal bug, never a transient condition.
var (
	// ErrNotIndexed is returned when a (variable, state) pair is referenced
	// before an index was allocated for it.
	ErrNotIndexed = errors.New("variable/state pair was never indexed")

	// ErrMalformedTable is returned when a flattened CPT does not match the
	// dimensions implied by its scope.
	ErrMalformedTable = errors.New("malformed probability table")

	// ErrInconsistent is returned when an internal invariant of the
	// encoding is violated.
	ErrInconsistent = errors.New("inconsistent encoder state")
)
