// Package rig models an avatar skeleton and binds canonical bone and mesh
// names against it.
//
// A rig is a tree of Nodes. Binding resolves the canonical bone names of
// each region into an ordered Group and captures every resolved bone's local
// rotation as its rest pose. Lookups never fail hard: a missing bone simply
// shrinks its group.
package rig

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Node is one element of the rig hierarchy.
type Node struct {
	Name        string
	Bone        bool
	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
	Mesh        *Mesh
	Parent      *Node
	Children    []*Node
}

// NewNode creates a non-bone node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// NewBone creates a bone at the given offset from its parent.
func NewBone(name string, translation mgl64.Vec3) *Node {
	n := NewNode(name)
	n.Bone = true
	n.Translation = translation
	return n
}

// Add appends children and sets their parent. It returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// Walk visits n and its descendants depth-first, parents before children.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Descendants returns every node below n in depth-first pre-order.
func (n *Node) Descendants() []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) { out = append(out, d) })
	}
	return out
}

// WorldRotation returns the rotation of n relative to the rig root.
func (n *Node) WorldRotation() mgl64.Quat {
	q := n.Rotation
	for p := n.Parent; p != nil; p = p.Parent {
		q = p.Rotation.Mul(q)
	}
	return q
}

// AimAxis returns the direction the bone points in its own local frame: the
// normalized sum of its children's offsets, or +Y for a leaf.
func (n *Node) AimAxis() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, c := range n.Children {
		sum = sum.Add(c.Translation)
	}
	if sum.Len() < 1e-9 {
		return mgl64.Vec3{0, 1, 0}
	}
	return sum.Normalize()
}

// BoneNames returns the sorted, de-duplicated names of all bones under root.
func BoneNames(root *Node) []string {
	seen := make(map[string]bool)
	root.Walk(func(n *Node) {
		if n.Bone {
			seen[n.Name] = true
		}
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
