package avatar

import "errors"

var (
	// ErrNotBound is returned when a frame arrives before any avatar is bound.
	ErrNotBound = errors.New("avatar: no avatar bound")

	// ErrNotLive is returned by Update outside live mode.
	ErrNotLive = errors.New("avatar: not in live mode")
)
