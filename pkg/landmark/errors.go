package landmark

import "errors"

var (
	// ErrMalformed is returned when a detector result does not match its layout.
	ErrMalformed = errors.New("malformed detector result")

	// ErrUnknownHandedness is returned for a hand label other than Left or Right.
	ErrUnknownHandedness = errors.New("unknown handedness")
)
