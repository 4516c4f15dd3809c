package gate

import (
	"testing"

	"github.com/teslashibe/go-avatar/internal/testutil"
	"github.com/teslashibe/go-avatar/pkg/landmark"
)

func TestLegsEnabled(t *testing.T) {
	withHips := func(left, right float64) landmark.Frame {
		f := testutil.TPose(1)
		f[landmark.LeftHip].Visibility = left
		f[landmark.RightHip].Visibility = right
		return f
	}

	tests := []struct {
		name   string
		toggle bool
		frame  landmark.Frame
		want   bool
	}{
		{"both hips visible", true, withHips(0.9, 0.8), true},
		{"toggle off", false, withHips(0.9, 0.8), false},
		{"left hip occluded", true, withHips(0.2, 0.9), false},
		{"right hip occluded", true, withHips(0.9, 0.1), false},
		{"exactly at threshold", true, withHips(0.5, 0.9), false},
		{"short frame", true, withHips(0.9, 0.9)[:24], false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LegsEnabled(tt.toggle, tt.frame, DefaultThreshold); got != tt.want {
				t.Errorf("LegsEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFramingFor(t *testing.T) {
	tests := []struct {
		body, legs bool
		want       Framing
	}{
		{false, false, HeadOnly},
		{false, true, HeadOnly},
		{true, false, HalfBody},
		{true, true, FullBody},
	}

	for _, tt := range tests {
		if got := FramingFor(tt.body, tt.legs); got != tt.want {
			t.Errorf("FramingFor(%v, %v) = %q, want %q", tt.body, tt.legs, got, tt.want)
		}
	}
}
