// Package testutil builds rigs and landmark frames for package tests.
package testutil

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// HumanoidOptions customizes Humanoid.
type HumanoidOptions struct {
	// Prefix is prepended to every bone name (e.g. "mixamorig:").
	Prefix string
	// Omit drops the named bones together with their subtrees.
	Omit []string
	// Twist gives the arm and leg bones non-identity rest rotations.
	Twist bool
}

var fingers = []string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// FaceTargets are the morph targets exposed by the fixture's head mesh.
var FaceTargets = []string{"eyeBlinkLeft", "eyeBlinkRight", "jawOpen", "mouthSmileLeft", "mouthSmileRight"}

// EyeTargets are the morph targets exposed by the fixture's eye meshes.
var EyeTargets = []string{"eyeLookUpLeft", "eyeLookDownLeft"}

// Humanoid builds a Ready Player Me style skeleton: y up, facing +z, the
// avatar's left side on +x.
func Humanoid(opts HumanoidOptions) *rig.Node {
	omit := make(map[string]bool, len(opts.Omit))
	for _, n := range opts.Omit {
		omit[n] = true
	}
	b := func(name string, x, y, z float64) *rig.Node {
		return rig.NewBone(opts.Prefix+name, mgl64.Vec3{x, y, z})
	}
	add := func(parent *rig.Node, children ...*rig.Node) {
		for _, c := range children {
			if omit[strings.TrimPrefix(c.Name, opts.Prefix)] {
				continue
			}
			parent.Add(c)
		}
	}

	root := rig.NewNode("Scene")
	armature := rig.NewNode("Armature")
	add(root, armature)

	hips := b("Hips", 0, 1, 0)
	add(armature, hips)

	spine, spine1, spine2 := b("Spine", 0, 0.1, 0), b("Spine1", 0, 0.1, 0), b("Spine2", 0, 0.1, 0)
	neck, head, headTop := b("Neck", 0, 0.15, 0), b("Head", 0, 0.1, 0), b("HeadTop_End", 0, 0.2, 0)
	add(hips, spine)
	add(spine, spine1)
	add(spine1, spine2)
	add(spine2, neck)
	add(neck, head)
	add(head, headTop)

	for _, side := range []struct {
		name string
		sign float64
	}{{"Left", 1}, {"Right", -1}} {
		s := side.sign
		shoulder := b(side.name+"Shoulder", 0.05*s, 0.1, 0)
		arm := b(side.name+"Arm", 0.1*s, 0, 0)
		fore := b(side.name+"ForeArm", 0.25*s, 0, 0)
		hand := b(side.name+"Hand", 0.25*s, 0, 0)
		add(spine2, shoulder)
		add(shoulder, arm)
		add(arm, fore)
		add(fore, hand)
		for fi, f := range fingers {
			parent := hand
			offset := mgl64.Vec3{0.08 * s, 0, 0.03 * float64(2-fi)}
			for j := 1; j <= 4; j++ {
				bone := b(side.name+"Hand"+f+string(rune('0'+j)), offset[0], offset[1], offset[2])
				add(parent, bone)
				parent = bone
				offset = mgl64.Vec3{0.03 * s, 0, 0}
			}
		}

		upLeg := b(side.name+"UpLeg", 0.1*s, -0.05, 0)
		leg := b(side.name+"Leg", 0, -0.45, 0)
		foot := b(side.name+"Foot", 0, -0.45, 0)
		toe := b(side.name+"ToeBase", 0, 0, 0.15)
		add(hips, upLeg)
		add(upLeg, leg)
		add(leg, foot)
		add(foot, toe)

		if opts.Twist {
			arm.Rotation = mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1})
			fore.Rotation = mgl64.QuatRotate(-0.2, mgl64.Vec3{0, 1, 0})
			upLeg.Rotation = mgl64.QuatRotate(0.1, mgl64.Vec3{1, 0, 0})
		}
	}

	meshes := []struct {
		name    string
		targets []string
	}{
		{"Wolf3D_Head", FaceTargets},
		{"Wolf3D_Teeth", []string{"jawOpen"}},
		{"EyeLeft", EyeTargets},
		{"EyeRight", EyeTargets},
	}
	for _, m := range meshes {
		n := rig.NewNode(m.name)
		n.Mesh = rig.NewMesh(m.name, append([]string(nil), m.targets...))
		add(armature, n)
	}

	return root
}

// TPose returns 33 body world landmarks of a person facing the camera in a
// T-pose, in detector coordinates (x toward image right, y down, z away from
// the camera), with every visibility set to vis.
func TPose(vis float64) landmark.Frame {
	f := make(landmark.Frame, landmark.BodyCount)
	set := func(i int, x, y, z float64) {
		f[i] = landmark.Landmark{X: x, Y: y, Z: z, Visibility: vis}
	}
	for i := range f {
		set(i, 0, 0, 0)
	}
	set(landmark.Nose, 0, -0.6, -0.1)
	set(landmark.LeftShoulder, 0.2, -0.5, 0)
	set(landmark.RightShoulder, -0.2, -0.5, 0)
	set(landmark.LeftElbow, 0.45, -0.5, 0)
	set(landmark.RightElbow, -0.45, -0.5, 0)
	set(landmark.LeftWrist, 0.7, -0.5, 0)
	set(landmark.RightWrist, -0.7, -0.5, 0)
	set(landmark.LeftPinky, 0.8, -0.5, 0.01)
	set(landmark.RightPinky, -0.8, -0.5, 0.01)
	set(landmark.LeftIndex, 0.8, -0.5, -0.01)
	set(landmark.RightIndex, -0.8, -0.5, -0.01)
	set(landmark.LeftHip, 0.1, 0, 0)
	set(landmark.RightHip, -0.1, 0, 0)
	set(landmark.LeftKnee, 0.1, 0.45, 0)
	set(landmark.RightKnee, -0.1, 0.45, 0)
	set(landmark.LeftAnkle, 0.1, 0.9, 0)
	set(landmark.RightAnkle, -0.1, 0.9, 0)
	set(landmark.LeftFootIndex, 0.1, 0.9, -0.15)
	set(landmark.RightFootIndex, -0.1, 0.9, -0.15)
	return f
}

// FlatHand returns 21 hand world landmarks with every finger extended along
// sign*x (detector coordinates).
func FlatHand(sign float64) landmark.Frame {
	f := make(landmark.Frame, landmark.HandCount)
	for finger := 0; finger < landmark.FingerCount; finger++ {
		base := landmark.FingerBase(finger)
		for j := 0; j < landmark.FingerPoints; j++ {
			f[base+j] = landmark.Landmark{X: sign * 0.03 * float64(j+1), Y: 0, Z: -0.02 * float64(finger-2)}
		}
	}
	return f
}
