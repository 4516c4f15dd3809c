// Package landmark defines the per-frame records produced by the external face,
// pose and hand detectors, and the fixed landmark layouts they follow.
package landmark

// Landmark is a single detected 3D point with optional confidence.
// Visibility and Presence are 0 when the detector does not report them.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility,omitempty"`
	Presence   float64 `json:"presence,omitempty"`
}

// Frame is the ordered landmark set for one region in one camera frame.
type Frame []Landmark

// Layout sizes for each region.
const (
	BodyCount = 33
	HandCount = 21
	FaceCount = 52
)

// Clone returns a copy that does not share storage with f.
func (f Frame) Clone() Frame {
	if f == nil {
		return nil
	}
	out := make(Frame, len(f))
	copy(out, f)
	return out
}

// Midpoint returns the componentwise mean of two landmarks.
func Midpoint(a, b Landmark) Landmark {
	return Landmark{
		X:          (a.X + b.X) / 2,
		Y:          (a.Y + b.Y) / 2,
		Z:          (a.Z + b.Z) / 2,
		Visibility: (a.Visibility + b.Visibility) / 2,
		Presence:   (a.Presence + b.Presence) / 2,
	}
}
