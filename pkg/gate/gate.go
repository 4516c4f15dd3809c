// Package gate decides which body regions are trustworthy enough to drive
// and how the camera should frame the avatar.
package gate

import "github.com/teslashibe/go-avatar/pkg/landmark"

// DefaultThreshold is the hip visibility above which legs are tracked.
const DefaultThreshold = 0.5

// Framing is the camera preset matching the tracked regions.
type Framing string

const (
	FullBody Framing = "full-body"
	HalfBody Framing = "half-body"
	HeadOnly Framing = "head-only"
)

// LegsEnabled reports whether leg retargeting should run for this body
// frame: the legs toggle is on and both hips are visible above threshold.
// It reads the raw, unsmoothed frame so occlusion is reacted to immediately.
func LegsEnabled(toggle bool, raw landmark.Frame, threshold float64) bool {
	if !toggle || len(raw) != landmark.BodyCount {
		return false
	}
	return raw[landmark.LeftHip].Visibility > threshold &&
		raw[landmark.RightHip].Visibility > threshold
}

// FramingFor returns the camera framing for the current tracking state.
func FramingFor(bodyTracking, legsEnabled bool) Framing {
	switch {
	case !bodyTracking:
		return HeadOnly
	case legsEnabled:
		return FullBody
	default:
		return HalfBody
	}
}
