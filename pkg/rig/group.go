package rig

import "github.com/go-gl/mathgl/mgl64"

// Region is a semantic part of the rig driven by one tracking pass.
type Region int

const (
	Head Region = iota
	Body
	Legs
	LeftHand
	RightHand
	regionCount
)

// Regions lists every region in bind order.
var Regions = []Region{Head, Body, Legs, LeftHand, RightHand}

// String returns a human-readable region name.
func (r Region) String() string {
	switch r {
	case Head:
		return "head"
	case Body:
		return "body"
	case Legs:
		return "legs"
	case LeftHand:
		return "left_hand"
	case RightHand:
		return "right_hand"
	default:
		return "unknown"
	}
}

// Group is the ordered set of resolved bones for one region. Rest[i] is the
// bind-time local rotation of Bones[i] and Keys[i] is the canonical name it
// was resolved from.
type Group struct {
	Region Region
	Bones  []*Node
	Keys   []string
	Rest   []mgl64.Quat
}

func newGroup(r Region, bones []*Node, keys []string) *Group {
	g := &Group{
		Region: r,
		Bones:  bones,
		Keys:   keys,
		Rest:   make([]mgl64.Quat, len(bones)),
	}
	for i, b := range bones {
		g.Rest[i] = b.Rotation
	}
	return g
}

// Len returns the number of resolved bones.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Bones)
}

// Names returns the resolved bone names in group order.
func (g *Group) Names() []string {
	names := make([]string, len(g.Bones))
	for i, b := range g.Bones {
		names[i] = b.Name
	}
	return names
}

// AtRest reports whether every bone currently equals its rest rotation.
func (g *Group) AtRest() bool {
	for i, b := range g.Bones {
		if b.Rotation != g.Rest[i] {
			return false
		}
	}
	return true
}
