package retarget

import (
	"fmt"

	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// fingerJoints is the number of bones per finger that follow a segment; the
// fourth bone of a chain is a tip end and keeps its rest pose.
const fingerJoints = 3

// HandRegion returns the rig region driven by a detector handedness label.
func (r *Retargeter) HandRegion(handedness string) (rig.Region, error) {
	var region rig.Region
	switch handedness {
	case landmark.Left:
		region = rig.LeftHand
	case landmark.Right:
		region = rig.RightHand
	default:
		return 0, fmt.Errorf("%w: %q", landmark.ErrUnknownHandedness, handedness)
	}
	if r.cfg.MirrorHandedness {
		if region == rig.LeftHand {
			return rig.RightHand, nil
		}
		return rig.LeftHand, nil
	}
	return region, nil
}

// Hand aims the finger bones of one hand chain along 21 hand world
// landmarks.
func (r *Retargeter) Hand(s *rig.Session, region rig.Region, f landmark.Frame) (int, error) {
	if s == nil {
		return 0, ErrNoRig
	}
	if len(f) != landmark.HandCount {
		return 0, fmt.Errorf("%w: hand has %d landmarks, want %d", landmark.ErrMalformed, len(f), landmark.HandCount)
	}
	root, ok := s.HandRoot(region)
	if !ok {
		return 0, nil
	}
	joints := fingerMap(root)

	g := s.Group(region)
	n := 0
	for i, b := range g.Bones {
		j, ok := joints[b]
		if !ok || j.finger >= landmark.FingerCount || j.depth >= fingerJoints {
			continue
		}
		lm := landmark.FingerBase(j.finger) + j.depth
		seg := segment{endpoint{lm}, endpoint{lm + 1}}
		if aim(b, g.Rest[i], seg.direction(f)) {
			n++
		}
	}
	return n, nil
}

type joint struct {
	finger, depth int
}

// fingerMap assigns every bone under hand a finger index (by the order of
// the hand's direct children: thumb, index, middle, ring, pinky) and a depth
// within that finger.
func fingerMap(hand *rig.Node) map[*rig.Node]joint {
	out := make(map[*rig.Node]joint)
	for fi, child := range hand.Children {
		var visit func(n *rig.Node, depth int)
		visit = func(n *rig.Node, depth int) {
			out[n] = joint{finger: fi, depth: depth}
			for _, c := range n.Children {
				visit(c, depth+1)
			}
		}
		visit(child, 0)
	}
	return out
}
