package landmark

import (
	"fmt"
	"math"
)

// Category is one scored face blendshape.
type Category struct {
	Name  string  `json:"categoryName"`
	Score float64 `json:"score"`
}

// FaceResult is the face detector output for the first detected face.
type FaceResult struct {
	Blendshapes   []Category `json:"blendshapes"`
	HeadTransform []float64  `json:"headTransform"`
}

// BodyResult holds the world landmarks of the first detected person.
type BodyResult struct {
	Landmarks Frame `json:"landmarks"`
}

// Handedness labels reported by the hand detector.
const (
	Left  = "Left"
	Right = "Right"
)

// HandResult is one detected hand.
type HandResult struct {
	Handedness     string `json:"handedness"`
	WorldLandmarks Frame  `json:"worldLandmarks"`
}

// HasTransform reports whether the face result carries a usable 4x4 matrix.
func (r *FaceResult) HasTransform() bool {
	return r != nil && len(r.HeadTransform) == 16
}

// Validate checks that every blendshape score is finite and that the head
// transform, when present, is 16 finite values.
func (r *FaceResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil face result", ErrMalformed)
	}
	for _, c := range r.Blendshapes {
		if !finite(c.Score) {
			return fmt.Errorf("%w: blendshape %s score %v", ErrMalformed, c.Name, c.Score)
		}
	}
	if len(r.HeadTransform) == 0 {
		return nil
	}
	if len(r.HeadTransform) != 16 {
		return fmt.Errorf("%w: head transform has %d values, want 16", ErrMalformed, len(r.HeadTransform))
	}
	for i, v := range r.HeadTransform {
		if !finite(v) {
			return fmt.Errorf("%w: head transform value %d is %v", ErrMalformed, i, v)
		}
	}
	return nil
}

// Validate checks the body landmark count and values.
func (r *BodyResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil body result", ErrMalformed)
	}
	if len(r.Landmarks) != BodyCount {
		return fmt.Errorf("%w: body has %d landmarks, want %d", ErrMalformed, len(r.Landmarks), BodyCount)
	}
	return r.Landmarks.Validate()
}

// Validate checks the handedness label, landmark count and values.
func (r *HandResult) Validate() error {
	if r.Handedness != Left && r.Handedness != Right {
		return fmt.Errorf("%w: %q", ErrUnknownHandedness, r.Handedness)
	}
	if len(r.WorldLandmarks) != HandCount {
		return fmt.Errorf("%w: hand has %d landmarks, want %d", ErrMalformed, len(r.WorldLandmarks), HandCount)
	}
	return r.WorldLandmarks.Validate()
}

// Validate reports the first landmark with a NaN or infinite field.
func (f Frame) Validate() error {
	for i, l := range f {
		if !finite(l.X) || !finite(l.Y) || !finite(l.Z) || !finite(l.Visibility) || !finite(l.Presence) {
			return fmt.Errorf("%w: landmark %d is not finite", ErrMalformed, i)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
