// Package avatar ties landmark smoothing, visibility gating, retargeting and
// resets together into one per-avatar session.
//
// A Session owns every piece of mutable tracking state: the bound rig, its
// rest poses, the smoothing windows and the tracking toggles. All methods
// are serialized by one mutex, so a frame is never retargeted against a rig
// that is being replaced and a disabled region is reset before the next
// frame can touch it.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/gate"
	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/retarget"
	"github.com/teslashibe/go-avatar/pkg/rig"
	"github.com/teslashibe/go-avatar/pkg/smoothing"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithClock replaces time.Now for the frame rate counter.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session drives one avatar from detector output.
type Session struct {
	mu sync.Mutex

	cfg       Config
	binder    *rig.Binder
	retarget  *retarget.Retargeter
	smoother  *smoothing.Smoother
	rig       *rig.Session
	source    string
	tracking  TrackingState
	live      bool
	legs      bool // last gate decision
	legsFresh int  // body samples since the legs toggle was turned on
	frames    uint64

	accessories *accessory.Table
	fps         *fpsCounter
	now         func() time.Time
	logger      *slog.Logger
}

// NewSession creates an unbound session in live mode with every region
// enabled.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	s := &Session{
		cfg:         cfg,
		binder:      rig.NewBinder(cfg.Names),
		retarget:    retarget.New(retargetConfig(cfg)),
		smoother:    smoothing.New(cfg.BodyWindow, cfg.HandWindow),
		tracking:    DefaultTracking(),
		live:        true,
		accessories: accessory.NewTable(),
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "avatar")
	s.fps = newFPSCounter(s.now)
	return s, nil
}

func retargetConfig(cfg Config) retarget.Config {
	rc := retarget.DefaultConfig()
	rc.MirrorHandedness = cfg.MirrorHandedness
	rc.FaceCategories = cfg.FaceCategories
	return rc
}

// Config returns the session configuration, including runtime tuning.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Bind makes root the driven avatar. The new rig is fully bound before it
// replaces the current one; on error the current rig stays in place.
// Rebinding the rig that is already bound first returns it to its rest
// pose so the captured rest poses match the bind-time pose.
func (s *Session) Bind(root *rig.Node, source string) (*rig.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bindLocked(root, source)
}

// BindWith binds root like Bind and replaces the accessory layout with items
// in the same step, so no pose pairs the new rig with the old layout. On
// error neither the rig nor the layout changes.
func (s *Session) BindWith(root *rig.Node, source string, items []accessory.Accessory) (*rig.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.bindLocked(root, source)
	if err != nil {
		return nil, err
	}
	s.accessories.Replace(items)
	return next, nil
}

func (s *Session) bindLocked(root *rig.Node, source string) (*rig.Session, error) {
	if err := rig.Validate(root); err != nil {
		return nil, fmt.Errorf("bind %s: %w", source, err)
	}
	if s.rig != nil && s.rig.Root == root {
		s.rig.ResetAll()
	}
	next, err := s.binder.Bind(root)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", source, err)
	}

	s.rig = next
	s.source = source
	s.accessories.Rebind(next)

	summary := next.Summary()
	s.logger.Info("avatar bound",
		"source", source,
		"session", next.ID,
		"head", summary["head"],
		"body", summary["body"],
		"legs", summary["legs"],
		"left_hand", summary["left_hand"],
		"right_hand", summary["right_hand"],
		"meshes", summary["meshes"],
	)
	return next, nil
}

// Load reads an avatar asset from a path or URL and binds it. The asset is
// fetched and parsed without holding the session lock.
func (s *Session) Load(ctx context.Context, source string) (*rig.Session, error) {
	root, err := rig.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return s.Bind(root, source)
}

// Source returns the asset the current rig was loaded from.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Bound reports whether a rig is bound.
func (s *Session) Bound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rig != nil
}

// BoneNames lists the bones of the bound rig, sorted.
func (s *Session) BoneNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rig == nil {
		return nil
	}
	return rig.BoneNames(s.rig.Root)
}

// Update runs one frame: smooth, gate, retarget. Regions that are disabled
// or missing from the input keep their last pose.
func (s *Session) Update(in FrameInput) (Pose, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live {
		return Pose{}, ErrNotLive
	}
	if s.rig == nil {
		return Pose{}, ErrNotBound
	}
	s.frames++
	s.fps.tick()

	var skipped []string
	skip := func(pass string, err error) {
		skipped = append(skipped, pass+": "+err.Error())
		s.logger.Debug("pass skipped", "pass", pass, "error", err)
	}

	if s.tracking.Face && in.Face != nil {
		if err := in.Face.Validate(); err != nil {
			skip("face", err)
		} else {
			s.retarget.Face(s.rig, in.Face.Blendshapes)
			if len(in.Face.HeadTransform) > 0 {
				if _, err := s.retarget.Head(s.rig, in.Face.HeadTransform); err != nil {
					skip("head", err)
				}
			}
		}
	}

	if s.tracking.Body && in.Body != nil {
		if err := in.Body.Validate(); err != nil {
			skip("body", err)
		} else {
			s.updateBody(in.Body.Landmarks, skip)
		}
	}

	if s.tracking.Hands {
		seen := make(map[string]bool, 2)
		for _, h := range in.Hands {
			if err := h.Validate(); err != nil {
				skip("hand", err)
				continue
			}
			if seen[h.Handedness] {
				continue
			}
			seen[h.Handedness] = true
			s.updateHand(h, skip)
		}
	}

	p := s.poseLocked()
	p.Skipped = skipped
	return p, nil
}

func (s *Session) updateBody(raw landmark.Frame, skip func(string, error)) {
	s.legs = gate.LegsEnabled(s.tracking.Legs, raw, s.cfg.VisibilityThreshold)
	if s.tracking.Legs && s.legsFresh < s.cfg.BodyWindow {
		s.legsFresh++
	}

	smoothed, ok := s.smoother.Ingest(smoothing.Body, raw)
	if ok {
		if _, err := s.retarget.Body(s.rig, smoothed); err != nil {
			skip("body", err)
		}
	}

	if !s.legs {
		s.rig.Reset(rig.Legs)
		return
	}
	if ok && s.legsFresh >= s.cfg.BodyWindow {
		if _, err := s.retarget.Legs(s.rig, smoothed); err != nil {
			skip("legs", err)
		}
	}
}

func (s *Session) updateHand(h landmark.HandResult, skip func(string, error)) {
	ch := smoothing.LeftHand
	if h.Handedness == landmark.Right {
		ch = smoothing.RightHand
	}
	smoothed, ok := s.smoother.Ingest(ch, h.WorldLandmarks)
	if !ok {
		return
	}
	region, err := s.retarget.HandRegion(h.Handedness)
	if err != nil {
		skip("hand", err)
		return
	}
	if _, err := s.retarget.Hand(s.rig, region, smoothed); err != nil {
		skip(region.String(), err)
	}
}

// Pose returns the current pose without processing a frame.
func (s *Session) Pose() Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poseLocked()
}

func (s *Session) poseLocked() Pose {
	bones, morphs := snapshot(s.rig)
	return Pose{
		Framing:     gate.FramingFor(s.tracking.Body, s.legs),
		LegsEnabled: s.legs,
		Bones:       bones,
		Morphs:      morphs,
		Accessories: s.accessories.Bindings(),
	}
}

// Tracking returns the enabled regions.
func (s *Session) Tracking() TrackingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tracking
}

// SetTracking changes the enabled regions. Every region turned off has its
// smoothing window cleared and its bones reset before SetTracking returns.
func (s *Session) SetTracking(next TrackingState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTrackingLocked(next)
}

func (s *Session) setTrackingLocked(next TrackingState) {
	prev := s.tracking
	s.tracking = next

	if prev.Face && !next.Face {
		s.resetLocked(rig.Head)
	}
	if prev.Body && !next.Body {
		s.smoother.Clear(smoothing.Body)
		s.resetLocked(rig.Body)
		s.disableLegsLocked()
	}
	if prev.Hands && !next.Hands {
		s.smoother.Clear(smoothing.LeftHand)
		s.smoother.Clear(smoothing.RightHand)
		s.resetLocked(rig.LeftHand)
		s.resetLocked(rig.RightHand)
	}
	if prev.Legs && !next.Legs {
		s.disableLegsLocked()
	}
	if (!prev.Legs && next.Legs) || (!prev.Body && next.Body) {
		s.legsFresh = 0
	}

	s.logger.Info("tracking changed",
		"face", next.Face, "body", next.Body, "hands", next.Hands, "legs", next.Legs)
}

// UpdateTracking applies a partial tracking change and returns the result.
// The patch is applied to the state current when the lock is taken.
func (s *Session) UpdateTracking(p TrackingPatch) TrackingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := p.Apply(s.tracking)
	s.setTrackingLocked(next)
	return next
}

// SetLegs toggles leg tracking.
func (s *Session) SetLegs(on bool) {
	s.UpdateTracking(TrackingPatch{Legs: &on})
}

func (s *Session) disableLegsLocked() {
	s.legs = false
	s.legsFresh = 0
	s.resetLocked(rig.Legs)
}

func (s *Session) resetLocked(r rig.Region) {
	if s.rig != nil {
		s.rig.Reset(r)
	}
}

// Live reports whether the session is in live mode.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// SetLive enters or leaves live mode. Leaving it puts the whole avatar back
// in its rest pose and drops every pending smoothing sample.
func (s *Session) SetLive(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == on {
		return
	}
	s.live = on
	if !on {
		for _, ch := range []smoothing.Channel{smoothing.Body, smoothing.LeftHand, smoothing.RightHand} {
			s.smoother.Clear(ch)
		}
		if s.rig != nil {
			s.rig.ResetAll()
		}
		s.legs = false
		s.legsFresh = 0
		s.fps.reset()
	}
	s.logger.Info("live mode changed", "live", on)
}

// Status is a point-in-time summary of the session.
type Status struct {
	Bound    bool           `json:"bound"`
	Source   string         `json:"source,omitempty"`
	RigID    string         `json:"rig_id,omitempty"`
	Bones    map[string]int `json:"bones,omitempty"`
	Live     bool           `json:"live"`
	Tracking TrackingState  `json:"tracking"`
	Framing  gate.Framing   `json:"framing"`
	Legs     bool           `json:"legs_enabled"`
	Frames   uint64         `json:"frames"`
	FPS      float64        `json:"fps"`
	Pending  map[string]int `json:"pending"`
}

// Status returns a summary of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Bound:    s.rig != nil,
		Source:   s.source,
		Live:     s.live,
		Tracking: s.tracking,
		Framing:  gate.FramingFor(s.tracking.Body, s.legs),
		Legs:     s.legs,
		Frames:   s.frames,
		FPS:      s.fps.value(),
		Pending:  make(map[string]int, 3),
	}
	if s.rig != nil {
		st.RigID = s.rig.ID
		st.Bones = s.rig.Summary()
	}
	for _, ch := range []smoothing.Channel{smoothing.Body, smoothing.LeftHand, smoothing.RightHand} {
		st.Pending[ch.String()] = s.smoother.Len(ch)
	}
	return st
}

// IsSkip reports whether err only means the frame was not applied.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNotLive) || errors.Is(err, ErrNotBound)
}
