package avatar

import (
	"fmt"

	"github.com/teslashibe/go-avatar/pkg/gate"
	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

// Config holds the tunable surface of an avatar session.
type Config struct {
	// Smoothing
	BodyWindow int `toml:"body_window" json:"body_window"` // Body samples averaged per emission
	HandWindow int `toml:"hand_window" json:"hand_window"` // Hand samples averaged per emission

	// Gating
	VisibilityThreshold float64 `toml:"visibility_threshold" json:"visibility_threshold"` // Hip visibility needed for legs

	// Retargeting
	MirrorHandedness bool     `toml:"mirror_handedness" json:"mirror_handedness"` // Detector "Left" drives the rig's right hand
	FaceCategories   []string `toml:"face_categories" json:"face_categories"`     // Blendshapes applied to morph targets

	// Binding
	Names rig.Names `toml:"names" json:"names"`
}

// DefaultConfig returns the configuration used with a 30fps selfie camera.
func DefaultConfig() Config {
	return Config{
		BodyWindow:          3,
		HandWindow:          2,
		VisibilityThreshold: gate.DefaultThreshold,
		MirrorHandedness:    true,
		FaceCategories:      append([]string(nil), landmark.FaceCategories...),
		Names:               rig.DefaultNames(),
	}
}

// ResponsiveConfig trades jitter for latency: no hand smoothing and a short
// body window.
func ResponsiveConfig() Config {
	cfg := DefaultConfig()
	cfg.BodyWindow = 2
	cfg.HandWindow = 1
	return cfg
}

// StableConfig averages more samples for noisy detectors or low light.
func StableConfig() Config {
	cfg := DefaultConfig()
	cfg.BodyWindow = 5
	cfg.HandWindow = 4
	cfg.VisibilityThreshold = 0.65
	return cfg
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BodyWindow < 1 {
		return fmt.Errorf("body window must be at least 1, got %d", c.BodyWindow)
	}
	if c.HandWindow < 1 {
		return fmt.Errorf("hand window must be at least 1, got %d", c.HandWindow)
	}
	if c.VisibilityThreshold < 0 || c.VisibilityThreshold > 1 {
		return fmt.Errorf("visibility threshold must be in [0, 1], got %g", c.VisibilityThreshold)
	}
	return nil
}
