package retarget

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/landmark"
)

// endpoint is the mean of one or more landmarks.
type endpoint []int

// segment is a landmark-to-landmark direction that one bone follows.
type segment struct {
	from, to endpoint
}

var (
	hipMid      = endpoint{landmark.LeftHip, landmark.RightHip}
	shoulderMid = endpoint{landmark.LeftShoulder, landmark.RightShoulder}
)

// bodySegments maps canonical body bone names to the segment they follow.
var bodySegments = map[string]segment{
	"Spine":        {hipMid, shoulderMid},
	"Spine1":       {hipMid, shoulderMid},
	"RightArm":     {endpoint{landmark.RightShoulder}, endpoint{landmark.RightElbow}},
	"RightForeArm": {endpoint{landmark.RightElbow}, endpoint{landmark.RightWrist}},
	"RightHand":    {endpoint{landmark.RightWrist}, endpoint{landmark.RightPinky, landmark.RightIndex}},
	"LeftArm":      {endpoint{landmark.LeftShoulder}, endpoint{landmark.LeftElbow}},
	"LeftForeArm":  {endpoint{landmark.LeftElbow}, endpoint{landmark.LeftWrist}},
	"LeftHand":     {endpoint{landmark.LeftWrist}, endpoint{landmark.LeftPinky, landmark.LeftIndex}},
}

// legSegments maps canonical leg bone names to the segment they follow.
var legSegments = map[string]segment{
	"RightUpLeg": {endpoint{landmark.RightHip}, endpoint{landmark.RightKnee}},
	"RightLeg":   {endpoint{landmark.RightKnee}, endpoint{landmark.RightAnkle}},
	"RightFoot":  {endpoint{landmark.RightAnkle}, endpoint{landmark.RightFootIndex}},
	"LeftUpLeg":  {endpoint{landmark.LeftHip}, endpoint{landmark.LeftKnee}},
	"LeftLeg":    {endpoint{landmark.LeftKnee}, endpoint{landmark.LeftAnkle}},
	"LeftFoot":   {endpoint{landmark.LeftAnkle}, endpoint{landmark.LeftFootIndex}},
}

// ToRig converts a detector world landmark (x right, y down, z away from the
// camera) into rig space (y up, avatar facing +z).
func ToRig(l landmark.Landmark) mgl64.Vec3 {
	return mgl64.Vec3{l.X, -l.Y, -l.Z}
}

func (e endpoint) point(f landmark.Frame) mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, i := range e {
		sum = sum.Add(ToRig(f[i]))
	}
	return sum.Mul(1 / float64(len(e)))
}

// direction returns the rig-space direction of the segment in f.
func (s segment) direction(f landmark.Frame) mgl64.Vec3 {
	return s.to.point(f).Sub(s.from.point(f))
}
