package avatar

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/gate"
	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// FrameInput is everything the detectors produced for one camera frame. Nil
// or empty fields mean the region was not detected this frame.
type FrameInput struct {
	Face  *landmark.FaceResult
	Body  *landmark.BodyResult
	Hands []landmark.HandResult
}

// BoneRotation is one bone's current local rotation.
type BoneRotation struct {
	Name     string
	Region   rig.Region
	Rotation mgl64.Quat
}

// MorphWeight is one morph target's current weight.
type MorphWeight struct {
	Mesh   string
	Target string
	Weight float64
}

// Pose is the renderer-facing snapshot after a frame.
type Pose struct {
	Framing     gate.Framing
	LegsEnabled bool
	Bones       []BoneRotation
	Morphs      []MorphWeight
	Accessories []accessory.Binding

	// Skipped lists passes that did not run this frame and why.
	Skipped []string
}

func snapshot(s *rig.Session) ([]BoneRotation, []MorphWeight) {
	if s == nil {
		return nil, nil
	}
	var bones []BoneRotation
	for _, r := range rig.Regions {
		for _, b := range s.Group(r).Bones {
			bones = append(bones, BoneRotation{Name: b.Name, Region: r, Rotation: b.Rotation})
		}
	}
	var morphs []MorphWeight
	for _, m := range s.Meshes {
		for i, target := range m.Targets {
			morphs = append(morphs, MorphWeight{Mesh: m.Name, Target: target, Weight: m.Weights[i]})
		}
	}
	return bones, morphs
}
