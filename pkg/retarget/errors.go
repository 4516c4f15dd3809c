package retarget

import "errors"

var (
	// ErrTooFewBones is returned when a region has fewer resolved bones than
	// its pass requires. Nothing is written.
	ErrTooFewBones = errors.New("retarget: too few bones")

	// ErrNoRig is returned when a pass is run without a bound rig.
	ErrNoRig = errors.New("retarget: no rig bound")
)
