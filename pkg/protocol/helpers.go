package protocol

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-avatar/pkg/avatar"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewFrameMessage creates a frame message
func NewFrameMessage(frame FrameData) (*Message, error) {
	return NewMessage(TypeFrame, frame)
}

// NewTrackingMessage creates a tracking toggle message
func NewTrackingMessage(data TrackingData) (*Message, error) {
	return NewMessage(TypeTracking, data)
}

// NewPoseMessage creates a pose message from a session pose
func NewPoseMessage(frameID uint64, pose avatar.Pose) (*Message, error) {
	return NewMessage(TypePose, PoseFrom(frameID, pose))
}

// NewStatusMessage creates a status message
func NewStatusMessage(status avatar.Status) (*Message, error) {
	return NewMessage(TypeStatus, status)
}

// NewErrorMessage creates an error message
func NewErrorMessage(frameID uint64, err error) (*Message, error) {
	return NewMessage(TypeError, ErrorData{
		Message: err.Error(),
		FrameID: frameID,
	})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// PoseFrom converts a session pose to its wire form.
func PoseFrom(frameID uint64, p avatar.Pose) PoseData {
	out := PoseData{
		FrameID:     frameID,
		Framing:     string(p.Framing),
		LegsEnabled: p.LegsEnabled,
		Bones:       make([]BoneData, len(p.Bones)),
		Morphs:      make([]MorphData, len(p.Morphs)),
		Skipped:     p.Skipped,
	}
	for i, b := range p.Bones {
		out.Bones[i] = BoneData{Name: b.Name, Region: b.Region.String(), Rotation: QuatData(b.Rotation)}
	}
	for i, m := range p.Morphs {
		out.Morphs[i] = MorphData{Mesh: m.Mesh, Target: m.Target, Weight: m.Weight}
	}
	for _, b := range p.Accessories {
		a := b.Accessory
		out.Accessories = append(out.Accessories, AttachmentData{
			ID:       a.ID,
			Name:     a.Name,
			Source:   a.Source,
			Bone:     b.Bone,
			Resolved: b.Resolved,
			Position: a.Position,
			Rotation: QuatData(a.LocalRotation()),
			Scale:    a.Scale,
		})
	}
	return out
}

// QuatData encodes a quaternion as [x, y, z, w].
func QuatData(q mgl64.Quat) [4]float64 {
	return [4]float64{q.V[0], q.V[1], q.V[2], q.W}
}

// QuatFromData decodes an [x, y, z, w] quaternion.
func QuatFromData(d [4]float64) mgl64.Quat {
	return mgl64.Quat{W: d[3], V: mgl64.Vec3{d[0], d[1], d[2]}}
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetFrameData extracts frame data from a message
func (m *Message) GetFrameData() (*FrameData, error) {
	var data FrameData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetTrackingData extracts tracking toggles from a message
func (m *Message) GetTrackingData() (*TrackingData, error) {
	var data TrackingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPoseData extracts a pose from a message
func (m *Message) GetPoseData() (*PoseData, error) {
	var data PoseData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetErrorData extracts an error from a message
func (m *Message) GetErrorData() (*ErrorData, error) {
	var data ErrorData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Input converts frame data into session input.
func (f *FrameData) Input() avatar.FrameInput {
	return avatar.FrameInput{Face: f.Face, Body: f.Body, Hands: f.Hands}
}

// Patch converts tracking toggles into a session tracking patch.
func (t *TrackingData) Patch() avatar.TrackingPatch {
	return avatar.TrackingPatch{Face: t.Face, Body: t.Body, Hands: t.Hands, Legs: t.Legs}
}
