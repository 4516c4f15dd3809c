// Package retarget converts smoothed landmarks into bone-local rotations and
// morph weights on a bound rig.
//
// Every pass writes local = rest * delta, where delta is recomputed from the
// bone's rest pose on each frame, so nothing accumulates across frames and a
// reset is always a plain copy of the rest pose.
package retarget

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// minSegment is the shortest segment length treated as a direction.
const minSegment = 1e-9

// Retargeter applies detector results to a rig session. It holds no per-rig
// state; callers serialize access to the session.
type Retargeter struct {
	cfg      Config
	category map[string]bool
}

// New creates a Retargeter.
func New(cfg Config) *Retargeter {
	r := &Retargeter{cfg: cfg}
	if len(cfg.FaceCategories) > 0 {
		r.category = make(map[string]bool, len(cfg.FaceCategories))
		for _, c := range cfg.FaceCategories {
			r.category[c] = true
		}
	}
	return r
}

// Config returns the retargeter's configuration.
func (r *Retargeter) Config() Config {
	return r.cfg
}

// Face sets the morph weight of every present category on each tracked mesh
// exposing a target of that name. Categories absent from the result are left
// untouched. It returns the number of weights written.
func (r *Retargeter) Face(s *rig.Session, blendshapes []landmark.Category) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range blendshapes {
		if r.category != nil && !r.category[c.Name] {
			continue
		}
		for _, m := range s.Meshes {
			if m.SetWeight(c.Name, c.Score) {
				n++
			}
		}
	}
	return n
}

// Head sets every head bone to rest * q, where q is the rotation of the
// column-major 4x4 facial transform.
func (r *Retargeter) Head(s *rig.Session, transform []float64) (int, error) {
	if s == nil {
		return 0, ErrNoRig
	}
	if len(transform) != 16 {
		return 0, fmt.Errorf("%w: head transform has %d values, want 16", landmark.ErrMalformed, len(transform))
	}
	var m mgl64.Mat4
	copy(m[:], transform)
	q := rig.RotationFromMatrix(m)

	g := s.Group(rig.Head)
	for i, b := range g.Bones {
		b.Rotation = g.Rest[i].Mul(q)
	}
	return g.Len(), nil
}

// Body aims the torso and arm bones along the smoothed body landmarks.
func (r *Retargeter) Body(s *rig.Session, f landmark.Frame) (int, error) {
	return r.segments(s, rig.Body, r.cfg.MinBodyBones, bodySegments, f)
}

// Legs aims the leg bones along the smoothed body landmarks.
func (r *Retargeter) Legs(s *rig.Session, f landmark.Frame) (int, error) {
	return r.segments(s, rig.Legs, r.cfg.MinLegBones, legSegments, f)
}

func (r *Retargeter) segments(s *rig.Session, region rig.Region, minBones int, table map[string]segment, f landmark.Frame) (int, error) {
	if s == nil {
		return 0, ErrNoRig
	}
	if len(f) != landmark.BodyCount {
		return 0, fmt.Errorf("%w: body has %d landmarks, want %d", landmark.ErrMalformed, len(f), landmark.BodyCount)
	}
	g := s.Group(region)
	if g.Len() < minBones {
		return 0, fmt.Errorf("%w: %s has %d, want %d", ErrTooFewBones, region, g.Len(), minBones)
	}

	n := 0
	for i, b := range g.Bones {
		seg, ok := table[g.Keys[i]]
		if !ok {
			continue
		}
		if aim(b, g.Rest[i], seg.direction(f)) {
			n++
		}
	}
	return n, nil
}

// aim rotates bone b away from its rest pose so that its aim axis points
// along the rig-space direction dir. Degenerate directions leave b as is.
func aim(b *rig.Node, rest mgl64.Quat, dir mgl64.Vec3) bool {
	if dir.Len() < minSegment {
		return false
	}
	parent := mgl64.QuatIdent()
	if b.Parent != nil {
		parent = b.Parent.WorldRotation()
	}
	target := parent.Mul(rest).Inverse().Rotate(dir.Normalize())
	delta := mgl64.QuatBetweenVectors(b.AimAxis(), target)
	b.Rotation = rest.Mul(delta).Normalize()
	return true
}
