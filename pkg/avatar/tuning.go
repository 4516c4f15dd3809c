package avatar

import (
	"github.com/teslashibe/go-avatar/pkg/retarget"
	"github.com/teslashibe/go-avatar/pkg/rig"
	"github.com/teslashibe/go-avatar/pkg/smoothing"
)

// TuningParams holds the parameters adjustable at runtime through the
// tuning API.
type TuningParams struct {
	BodyWindow          int      `json:"body_window"`                    // Body samples averaged (1 = off)
	HandWindow          int      `json:"hand_window"`                    // Hand samples averaged (1 = off)
	VisibilityThreshold *float64 `json:"visibility_threshold,omitempty"` // Hip visibility for legs (0-1)
	MirrorHandedness    *bool    `json:"mirror_handedness,omitempty"`
}

// Tuning returns the current tuning parameters.
func (s *Session) Tuning() TuningParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := s.cfg.VisibilityThreshold
	mirror := s.cfg.MirrorHandedness
	return TuningParams{
		BodyWindow:          s.cfg.BodyWindow,
		HandWindow:          s.cfg.HandWindow,
		VisibilityThreshold: &threshold,
		MirrorHandedness:    &mirror,
	}
}

// SetTuning updates tuning parameters at runtime.
// Zero windows and nil pointers are not applied. A window whose size
// changes starts empty. Changing the handedness mirroring resets both hands
// and clears both hand windows.
func (s *Session) SetTuning(p TuningParams) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.BodyWindow > 0 && p.BodyWindow != s.cfg.BodyWindow {
		s.cfg.BodyWindow = p.BodyWindow
		s.smoother.Resize(smoothing.Body, p.BodyWindow)
		s.legsFresh = 0
	}
	if p.HandWindow > 0 && p.HandWindow != s.cfg.HandWindow {
		s.cfg.HandWindow = p.HandWindow
		s.smoother.Resize(smoothing.LeftHand, p.HandWindow)
		s.smoother.Resize(smoothing.RightHand, p.HandWindow)
	}
	if p.VisibilityThreshold != nil {
		s.cfg.VisibilityThreshold = clamp(*p.VisibilityThreshold, 0, 1)
	}
	if p.MirrorHandedness != nil && *p.MirrorHandedness != s.cfg.MirrorHandedness {
		s.cfg.MirrorHandedness = *p.MirrorHandedness
		s.retarget = retarget.New(retargetConfig(s.cfg))
		s.smoother.Clear(smoothing.LeftHand)
		s.smoother.Clear(smoothing.RightHand)
		s.resetLocked(rig.LeftHand)
		s.resetLocked(rig.RightHand)
	}

	s.logger.Info("tuning updated",
		"body_window", s.cfg.BodyWindow,
		"hand_window", s.cfg.HandWindow,
		"visibility_threshold", s.cfg.VisibilityThreshold,
		"mirror_handedness", s.cfg.MirrorHandedness,
	)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
