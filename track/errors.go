package track

import "errors"

var (
	// ErrInputMismatch is returned when the two scenes share no valid data or
	// a required input is missing.
	ErrInputMismatch = errors.New("track: input scenes do not overlap")
	// ErrInvalidSize is returned for non-positive chip sizes or a reference
	// chip that cannot fit the search chip in ModeValid.
	ErrInvalidSize = errors.New("track: invalid chip size")
	// ErrInvalidResolution is returned for a non-positive or non-finite
	// sampling resolution.
	ErrInvalidResolution = errors.New("track: invalid sampling resolution")
	// ErrTaskFailed marks a correlation task that panicked or could not be
	// evaluated. Such tasks are dropped from the results.
	ErrTaskFailed = errors.New("track: correlation task failed")
)
