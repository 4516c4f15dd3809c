package rig

import "strings"

// MixamoPrefix is prepended to bone names by Mixamo-rigged assets.
const MixamoPrefix = "mixamorig:"

// Names is the canonical name table used to bind a rig.
type Names struct {
	Head      []string `toml:"head" json:"head"`
	Body      []string `toml:"body" json:"body"`
	Legs      []string `toml:"legs" json:"legs"`
	LeftHand  string   `toml:"left_hand" json:"left_hand"`
	RightHand string   `toml:"right_hand" json:"right_hand"`
	Meshes    []string `toml:"meshes" json:"meshes"`
}

// DefaultNames returns the canonical humanoid naming used by Ready Player Me
// and Mixamo rigs.
func DefaultNames() Names {
	return Names{
		Head: []string{"Head", "Neck", "Spine2"},
		Body: []string{
			"Spine", "Spine1",
			"RightArm", "RightForeArm", "RightHand",
			"LeftArm", "LeftForeArm", "LeftHand",
		},
		Legs: []string{
			"RightUpLeg", "RightLeg", "RightFoot",
			"LeftUpLeg", "LeftLeg", "LeftFoot",
		},
		LeftHand:  "LeftHand",
		RightHand: "RightHand",
		Meshes:    []string{"EyeLeft", "EyeRight", "Wolf3D_Head", "Wolf3D_Teeth"},
	}
}

// AttachmentPoint is a labelled bone offered for accessory placement.
type AttachmentPoint struct {
	Label string `json:"label"`
	Bone  string `json:"bone"`
}

// AttachmentPoints are the standard accessory attachment bones.
var AttachmentPoints = []AttachmentPoint{
	{Label: "Head", Bone: "Head"},
	{Label: "Neck", Bone: "Neck"},
	{Label: "Upper Back", Bone: "Spine2"},
	{Label: "Mid Back", Bone: "Spine1"},
	{Label: "Lower Back", Bone: "Spine"},
	{Label: "Hips", Bone: "Hips"},
	{Label: "Left Hand", Bone: "LeftHand"},
	{Label: "Right Hand", Bone: "RightHand"},
	{Label: "Left Arm", Bone: "LeftArm"},
	{Label: "Right Arm", Bone: "RightArm"},
	{Label: "Left Forearm", Bone: "LeftForeArm"},
	{Label: "Right Forearm", Bone: "RightForeArm"},
	{Label: "Left Foot", Bone: "LeftFoot"},
	{Label: "Right Foot", Bone: "RightFoot"},
}

// Index resolves names against one rig. The first node in traversal order
// wins for every key.
type Index struct {
	exact map[string]*Node
	lower map[string]*Node
}

// NewIndex indexes every node under root.
func NewIndex(root *Node) *Index {
	ix := &Index{
		exact: make(map[string]*Node),
		lower: make(map[string]*Node),
	}
	root.Walk(func(n *Node) {
		if n.Name == "" {
			return
		}
		if _, ok := ix.exact[n.Name]; !ok {
			ix.exact[n.Name] = n
		}
		key := strings.ToLower(n.Name)
		if _, ok := ix.lower[key]; !ok {
			ix.lower[key] = n
		}
	})
	return ix
}

// Exact returns the node with exactly this name.
func (ix *Index) Exact(name string) (*Node, bool) {
	n, ok := ix.exact[name]
	return n, ok
}

// Lookup resolves a canonical name: exact match, then the Mixamo-prefixed
// name, then a case-insensitive match.
func (ix *Index) Lookup(name string) (*Node, bool) {
	if name == "" {
		return nil, false
	}
	if n, ok := ix.exact[name]; ok {
		return n, true
	}
	if n, ok := ix.exact[MixamoPrefix+name]; ok {
		return n, true
	}
	n, ok := ix.lower[strings.ToLower(name)]
	return n, ok
}

// Find resolves a single name under root. Prefer an Index for repeated
// lookups.
func Find(root *Node, name string) (*Node, bool) {
	return NewIndex(root).Lookup(name)
}
