// Package protocol defines the WebSocket message types exchanged between
// landmark producers, the avatar server and renderers.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-avatar/pkg/landmark"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Producer → Server messages
	TypeFrame    MessageType = "frame"    // Detector output for one camera frame
	TypeTracking MessageType = "tracking" // Enable or disable regions

	// Server → Client messages
	TypePose   MessageType = "pose"   // Pose after a frame
	TypeStatus MessageType = "status" // Session summary
	TypeError  MessageType = "error"  // Request could not be applied

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// =============================================================================
// Producer → Server Message Types
// =============================================================================

// FrameData is the detector output for one camera frame. Regions that were
// not detected are omitted. It is also the line format of recordings.
type FrameData struct {
	FrameID uint64                `json:"frame_id,omitempty"`
	Face    *landmark.FaceResult  `json:"face,omitempty"`
	Body    *landmark.BodyResult  `json:"body,omitempty"`
	Hands   []landmark.HandResult `json:"hands,omitempty"`
}

// TrackingData toggles regions. Omitted fields are unchanged.
type TrackingData struct {
	Face  *bool `json:"face,omitempty"`
	Body  *bool `json:"body,omitempty"`
	Hands *bool `json:"hands,omitempty"`
	Legs  *bool `json:"legs,omitempty"`
}

// =============================================================================
// Server → Client Message Types
// =============================================================================

// PoseData is the renderer-facing pose after one frame.
type PoseData struct {
	FrameID     uint64           `json:"frame_id,omitempty"`
	Framing     string           `json:"framing"`
	LegsEnabled bool             `json:"legs_enabled"`
	Bones       []BoneData       `json:"bones"`
	Morphs      []MorphData      `json:"morphs"`
	Accessories []AttachmentData `json:"accessories,omitempty"`
	Skipped     []string         `json:"skipped,omitempty"`
}

// BoneData is one bone's local rotation as a quaternion [x, y, z, w].
type BoneData struct {
	Name     string     `json:"name"`
	Region   string     `json:"region"`
	Rotation [4]float64 `json:"rotation"`
}

// MorphData is one morph target weight.
type MorphData struct {
	Mesh   string  `json:"mesh"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// AttachmentData is one accessory's bone attachment.
type AttachmentData struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Source   string     `json:"source"`
	Bone     string     `json:"bone,omitempty"`
	Resolved bool       `json:"resolved"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // quaternion [x, y, z, w]
	Scale    [3]float64 `json:"scale"`
}

// ErrorData reports a request that could not be applied.
type ErrorData struct {
	Message string `json:"message"`
	FrameID uint64 `json:"frame_id,omitempty"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData is a health check request
type PingData struct {
	ID string `json:"id"`
}

// PongData is a health check response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
