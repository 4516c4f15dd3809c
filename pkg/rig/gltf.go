package rig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"

	"github.com/teslashibe/go-avatar/internal/httpc"
)

// MaxAssetSize caps avatar downloads.
const MaxAssetSize = 64 << 20

// Load reads an avatar from a local .glb/.gltf path or an http(s) URL.
func Load(ctx context.Context, source string) (*Node, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return Fetch(ctx, source)
	}
	return LoadFile(source)
}

// LoadFile reads an avatar asset from disk.
func LoadFile(path string) (*Node, error) {
	doc, err := gltf.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open avatar %s: %w", path, err)
	}
	return FromDocument(doc)
}

// Fetch downloads and decodes a self-contained (.glb or embedded .gltf)
// avatar asset.
func Fetch(ctx context.Context, url string) (*Node, error) {
	data, err := httpc.Fetch(ctx, url, MaxAssetSize)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a glTF document into a rig tree rooted at a synthetic
// "Scene" node. Skin joints become bones; meshes with morph targets become
// Meshes named after their node.
func FromDocument(doc *gltf.Document) (*Node, error) {
	if len(doc.Nodes) == 0 {
		return nil, ErrNoScene
	}

	joints := make(map[int]bool)
	for _, skin := range doc.Skins {
		for _, j := range skin.Joints {
			joints[j] = true
		}
	}

	nodes := make([]*Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		n := NewNode(gn.Name)
		n.Bone = joints[i]
		n.Translation, n.Rotation, n.Scale = nodeTRS(gn)
		if gn.Mesh != nil && *gn.Mesh >= 0 && *gn.Mesh < len(doc.Meshes) {
			n.Mesh = meshFrom(gn.Name, doc.Meshes[*gn.Mesh])
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < 0 || c >= len(nodes) || hasParent[c] || c == i {
				return nil, fmt.Errorf("%w: node %d has invalid child %d", ErrNotTree, i, c)
			}
			hasParent[c] = true
			nodes[i].Add(nodes[c])
		}
	}

	root := NewNode("Scene")
	for _, i := range sceneRoots(doc, hasParent) {
		if nodes[i].Parent != nil {
			continue
		}
		root.Add(nodes[i])
	}
	if len(root.Children) == 0 {
		return nil, ErrNoScene
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

func sceneRoots(doc *gltf.Document, hasParent []bool) []int {
	scene := 0
	if doc.Scene != nil {
		scene = *doc.Scene
	}
	if scene >= 0 && scene < len(doc.Scenes) && len(doc.Scenes[scene].Nodes) > 0 {
		return doc.Scenes[scene].Nodes
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func nodeTRS(gn *gltf.Node) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	m := mgl64.Mat4(gn.Matrix)
	if m != (mgl64.Mat4{}) && m != mgl64.Ident4() {
		return matrixTRS(m)
	}

	t := mgl64.Vec3{gn.Translation[0], gn.Translation[1], gn.Translation[2]}
	r := mgl64.Quat{W: gn.Rotation[3], V: mgl64.Vec3{gn.Rotation[0], gn.Rotation[1], gn.Rotation[2]}}
	if r.Len() < 1e-9 {
		r = mgl64.QuatIdent()
	} else {
		r = r.Normalize()
	}
	s := mgl64.Vec3{gn.Scale[0], gn.Scale[1], gn.Scale[2]}
	if s == (mgl64.Vec3{}) {
		s = mgl64.Vec3{1, 1, 1}
	}
	return t, r, s
}

// matrixTRS decomposes a column-major affine matrix without shear.
func matrixTRS(m mgl64.Mat4) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	t := mgl64.Vec3{m[12], m[13], m[14]}
	s := mgl64.Vec3{m.Col(0).Vec3().Len(), m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()}
	return t, RotationFromMatrix(m), s
}

// RotationFromMatrix extracts the rotation of a column-major 4x4 transform.
// Columns are re-orthonormalized first so scale and detector noise do not
// leak into the quaternion.
func RotationFromMatrix(m mgl64.Mat4) mgl64.Quat {
	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	if x.Len() < 1e-9 || y.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	x = x.Normalize()
	y = y.Sub(x.Mul(x.Dot(y)))
	if y.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	y = y.Normalize()
	z := x.Cross(y)

	r := mgl64.Ident4()
	r.SetCol(0, x.Vec4(0))
	r.SetCol(1, y.Vec4(0))
	r.SetCol(2, z.Vec4(0))
	q := mgl64.Mat4ToQuat(r).Normalize()
	if math.IsNaN(q.W) {
		return mgl64.QuatIdent()
	}
	return q
}

func meshFrom(name string, gm *gltf.Mesh) *Mesh {
	if gm == nil {
		return nil
	}
	targets := targetNames(gm.Extras)
	count := 0
	for _, p := range gm.Primitives {
		if len(p.Targets) > count {
			count = len(p.Targets)
		}
	}
	if count == 0 && len(targets) == 0 {
		return nil
	}
	for len(targets) < count {
		targets = append(targets, fmt.Sprintf("target_%d", len(targets)))
	}
	m := NewMesh(name, targets)
	for i, w := range gm.Weights {
		if i < len(m.Weights) {
			m.Weights[i] = w
		}
	}
	return m
}

// targetNames reads the conventional extras.targetNames array.
func targetNames(extras any) []string {
	if extras == nil {
		return nil
	}
	raw, err := json.Marshal(extras)
	if err != nil {
		return nil
	}
	var ex struct {
		TargetNames []string `json:"targetNames"`
	}
	if err := json.Unmarshal(raw, &ex); err != nil {
		return nil
	}
	return ex.TargetNames
}
