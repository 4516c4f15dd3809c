package avatar_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-avatar/internal/testutil"
	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/avatar"
	"github.com/teslashibe/go-avatar/pkg/gate"
	"github.com/teslashibe/go-avatar/pkg/landmark"
	"github.com/teslashibe/go-avatar/pkg/retarget"
	"github.com/teslashibe/go-avatar/pkg/rig"
	"github.com/teslashibe/go-avatar/pkg/smoothing"
)

func newSession(t *testing.T, opts testutil.HumanoidOptions) (*avatar.Session, *rig.Session) {
	t.Helper()
	s, err := avatar.NewSession(avatar.DefaultConfig())
	require.NoError(t, err)
	r, err := s.Bind(testutil.Humanoid(opts), "test.glb")
	require.NoError(t, err)
	return s, r
}

// bodyFrame returns a distinct posed body frame with both hips at the given
// visibility.
func bodyFrame(i int, hipVis float64) landmark.Frame {
	f := testutil.TPose(1)
	f[landmark.LeftElbow].Y += 0.05 * float64(i)
	f[landmark.RightWrist].Z -= 0.03 * float64(i)
	f[landmark.LeftKnee].Z = -0.2
	f[landmark.RightKnee].Z = -0.1 - 0.02*float64(i)
	f[landmark.LeftHip].Visibility = hipVis
	f[landmark.RightHip].Visibility = hipVis
	return f
}

func body(f landmark.Frame) avatar.FrameInput {
	return avatar.FrameInput{Body: &landmark.BodyResult{Landmarks: f}}
}

// reference retargets the mean of frames onto a freshly bound rig.
func reference(t *testing.T, frames ...landmark.Frame) *rig.Session {
	t.Helper()
	r, err := rig.NewBinder(rig.DefaultNames()).Bind(testutil.Humanoid(testutil.HumanoidOptions{Twist: true}))
	require.NoError(t, err)
	rt := retarget.New(retarget.DefaultConfig())
	mean := smoothing.Average(frames)
	_, err = rt.Body(r, mean)
	require.NoError(t, err)
	_, err = rt.Legs(r, mean)
	require.NoError(t, err)
	return r
}

func assertSamePose(t *testing.T, want, got *rig.Session, regions ...rig.Region) {
	t.Helper()
	for _, region := range regions {
		wg, gg := want.Group(region), got.Group(region)
		require.Equal(t, wg.Len(), gg.Len())
		for i := range wg.Bones {
			assert.True(t, wg.Bones[i].Rotation.ApproxEqualThreshold(gg.Bones[i].Rotation, 1e-12),
				"%s: want %v got %v", wg.Bones[i].Name, wg.Bones[i].Rotation, gg.Bones[i].Rotation)
		}
	}
}

func TestSession_TrailingAverageEndToEnd(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	f := []landmark.Frame{bodyFrame(1, 0.9), bodyFrame(2, 0.9), bodyFrame(3, 0.9), bodyFrame(4, 0.9)}

	for _, frame := range f[:2] {
		p, err := s.Update(body(frame))
		require.NoError(t, err)
		assert.Empty(t, p.Skipped)
		assert.True(t, r.Group(rig.Body).AtRest(), "no emission before the window fills")
	}

	p, err := s.Update(body(f[2]))
	require.NoError(t, err)
	assert.True(t, p.LegsEnabled)
	assert.Equal(t, gate.FullBody, p.Framing)
	assertSamePose(t, reference(t, f[0], f[1], f[2]), r, rig.Body, rig.Legs)

	_, err = s.Update(body(f[3]))
	require.NoError(t, err)
	assertSamePose(t, reference(t, f[1], f[2], f[3]), r, rig.Body, rig.Legs)
}

func TestSession_LegsToggleNeedsFreshWindow(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	for i := 1; i <= 4; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}
	require.False(t, r.Group(rig.Legs).AtRest())

	s.SetLegs(false)
	assert.True(t, r.Group(rig.Legs).AtRest(), "legs reset synchronously")
	p := s.Pose()
	assert.False(t, p.LegsEnabled)
	assert.Equal(t, gate.HalfBody, p.Framing)

	s.SetLegs(true)
	for i := 5; i <= 6; i++ {
		p, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
		assert.True(t, p.LegsEnabled)
		assert.True(t, r.Group(rig.Legs).AtRest(), "frame %d: no leg retarget before a fresh window", i)
		assert.False(t, r.Group(rig.Body).AtRest(), "body keeps tracking")
	}

	_, err := s.Update(body(bodyFrame(7, 0.9)))
	require.NoError(t, err)
	assert.False(t, r.Group(rig.Legs).AtRest())
	assertSamePose(t, reference(t, bodyFrame(5, 0.9), bodyFrame(6, 0.9), bodyFrame(7, 0.9)), r, rig.Legs)
}

func TestSession_HipOcclusionGatesLegs(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	for i := 1; i <= 3; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}
	require.False(t, r.Group(rig.Legs).AtRest())

	p, err := s.Update(body(bodyFrame(4, 0.3)))
	require.NoError(t, err)
	assert.False(t, p.LegsEnabled)
	assert.Equal(t, gate.HalfBody, p.Framing)
	assert.True(t, r.Group(rig.Legs).AtRest())
	assert.False(t, r.Group(rig.Body).AtRest())
}

func TestSession_DisableBody(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	for i := 1; i <= 3; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}

	tr := s.Tracking()
	tr.Body = false
	s.SetTracking(tr)

	assert.True(t, r.Group(rig.Body).AtRest())
	assert.True(t, r.Group(rig.Legs).AtRest())
	st := s.Status()
	assert.Equal(t, gate.HeadOnly, st.Framing)
	assert.Zero(t, st.Pending["body"])

	_, err := s.Update(body(bodyFrame(9, 0.9)))
	require.NoError(t, err)
	assert.True(t, r.Group(rig.Body).AtRest(), "disabled regions ignore input")

	tr.Body = true
	s.SetTracking(tr)
	for i := 1; i <= 2; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
		assert.True(t, r.Group(rig.Body).AtRest(), "no emission until the window refills")
	}
	_, err = s.Update(body(bodyFrame(3, 0.9)))
	require.NoError(t, err)
	assert.False(t, r.Group(rig.Body).AtRest())
}

func TestSession_FaceAndHead(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{})
	head, _ := r.Lookup("Wolf3D_Head")

	tf := []float64{
		0.8, 0, -0.6, 0,
		0, 1, 0, 0,
		0.6, 0, 0.8, 0,
		0, 0, -40, 1,
	}
	_, err := s.Update(avatar.FrameInput{Face: &landmark.FaceResult{
		Blendshapes:   []landmark.Category{{Name: "jawOpen", Score: 0.7}},
		HeadTransform: tf,
	}})
	require.NoError(t, err)
	w, _ := head.Mesh.Weight("jawOpen")
	assert.Equal(t, 0.7, w)
	assert.False(t, r.Group(rig.Head).AtRest())

	p, err := s.Update(avatar.FrameInput{Face: &landmark.FaceResult{HeadTransform: tf[:9]}})
	require.NoError(t, err)
	require.Len(t, p.Skipped, 1)
	assert.Contains(t, p.Skipped[0], "face")
	assert.False(t, r.Group(rig.Head).AtRest(), "malformed input keeps the last pose")

	s.UpdateTracking(avatar.TrackingPatch{Face: ptr(false)})
	w, _ = head.Mesh.Weight("jawOpen")
	assert.Zero(t, w)
	assert.True(t, r.Group(rig.Head).AtRest())
}

func TestSession_MirroredHands(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{})
	in := avatar.FrameInput{Hands: []landmark.HandResult{{Handedness: landmark.Left, WorldLandmarks: testutil.FlatHand(1)}}}

	_, err := s.Update(in)
	require.NoError(t, err)
	assert.True(t, r.Group(rig.RightHand).AtRest(), "hand window of 2 needs a second sample")

	_, err = s.Update(in)
	require.NoError(t, err)
	assert.False(t, r.Group(rig.RightHand).AtRest(), "detector Left drives the rig's right hand")
	assert.True(t, r.Group(rig.LeftHand).AtRest())

	s.UpdateTracking(avatar.TrackingPatch{Hands: ptr(false)})
	assert.True(t, r.Group(rig.RightHand).AtRest())
	assert.Zero(t, s.Status().Pending["left_hand"])
}

func TestSession_MissingRightHandIsSkippedSilently(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Omit: []string{"RightHand"}})
	require.Equal(t, 0, r.Group(rig.RightHand).Len())

	in := avatar.FrameInput{Hands: []landmark.HandResult{{Handedness: landmark.Left, WorldLandmarks: testutil.FlatHand(1)}}}
	for i := 0; i < 3; i++ {
		p, err := s.Update(in)
		require.NoError(t, err)
		assert.Empty(t, p.Skipped)
	}
}

func TestSession_TooFewBodyBonesReported(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Omit: []string{"LeftForeArm"}})
	var p avatar.Pose
	var err error
	for i := 1; i <= 3; i++ {
		p, err = s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}
	require.Len(t, p.Skipped, 1)
	assert.Contains(t, p.Skipped[0], "body")
	assert.True(t, r.Group(rig.Body).AtRest())
	assert.False(t, r.Group(rig.Legs).AtRest(), "legs pass is independent of the body pass")
}

func TestSession_MalformedBodyKeepsPose(t *testing.T) {
	s, _ := newSession(t, testutil.HumanoidOptions{})
	p, err := s.Update(body(testutil.TPose(1)[:10]))
	require.NoError(t, err)
	require.Len(t, p.Skipped, 1)
	assert.Contains(t, p.Skipped[0], "body")
	assert.Zero(t, s.Status().Pending["body"])
}

func rotations(g *rig.Group) []mgl64.Quat {
	out := make([]mgl64.Quat, len(g.Bones))
	for i, b := range g.Bones {
		out[i] = b.Rotation
	}
	return out
}

func TestSession_NonFiniteBodyKeepsPoseAndWindow(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	for i := 1; i <= 3; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}
	bodyPose, legPose := rotations(r.Group(rig.Body)), rotations(r.Group(rig.Legs))

	tests := []struct {
		name string
		edit func(f landmark.Frame)
	}{
		{"nan x", func(f landmark.Frame) { f[landmark.LeftElbow].X = math.NaN() }},
		{"inf z", func(f landmark.Frame) { f[landmark.RightKnee].Z = math.Inf(-1) }},
		{"nan visibility", func(f landmark.Frame) { f[landmark.LeftHip].Visibility = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := bodyFrame(9, 0.9)
			tt.edit(f)
			p, err := s.Update(body(f))
			require.NoError(t, err)
			require.Len(t, p.Skipped, 1)
			assert.Contains(t, p.Skipped[0], "body")
			assert.Equal(t, bodyPose, rotations(r.Group(rig.Body)))
			assert.Equal(t, legPose, rotations(r.Group(rig.Legs)))
			assert.Equal(t, 2, s.Status().Pending["body"])
		})
	}

	_, err := s.Update(body(bodyFrame(4, 0.9)))
	require.NoError(t, err)
	assertSamePose(t, reference(t, bodyFrame(2, 0.9), bodyFrame(3, 0.9), bodyFrame(4, 0.9)), r, rig.Body, rig.Legs)
}

func TestSession_NonFiniteHandAndFaceSkipped(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{})

	hand := testutil.FlatHand(1)
	hand[landmark.IndexMCP+3].Y = math.NaN()
	in := avatar.FrameInput{Hands: []landmark.HandResult{{Handedness: landmark.Left, WorldLandmarks: hand}}}
	for i := 0; i < 2; i++ {
		p, err := s.Update(in)
		require.NoError(t, err)
		require.Len(t, p.Skipped, 1)
		assert.Contains(t, p.Skipped[0], "hand")
	}
	assert.True(t, r.Group(rig.RightHand).AtRest())
	assert.Zero(t, s.Status().Pending["left_hand"])
	assert.Zero(t, s.Status().Pending["right_hand"])

	p, err := s.Update(avatar.FrameInput{Face: &landmark.FaceResult{
		Blendshapes: []landmark.Category{{Name: "jawOpen", Score: math.NaN()}},
	}})
	require.NoError(t, err)
	require.Len(t, p.Skipped, 1)
	assert.Contains(t, p.Skipped[0], "face")
	for _, m := range p.Morphs {
		assert.Zero(t, m.Weight, "%s/%s", m.Mesh, m.Target)
	}
}

func TestSession_LiveMode(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	for i := 1; i <= 3; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}

	s.SetLive(false)
	for _, region := range rig.Regions {
		assert.True(t, r.Group(region).AtRest(), region.String())
	}
	_, err := s.Update(body(bodyFrame(4, 0.9)))
	assert.ErrorIs(t, err, avatar.ErrNotLive)
	assert.True(t, avatar.IsSkip(err))

	s.SetLive(true)
	_, err = s.Update(body(bodyFrame(4, 0.9)))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Status().Pending["body"], "leaving live mode cleared the window")
}

func TestSession_NotBound(t *testing.T) {
	s, err := avatar.NewSession(avatar.DefaultConfig())
	require.NoError(t, err)
	_, err = s.Update(body(bodyFrame(1, 0.9)))
	assert.ErrorIs(t, err, avatar.ErrNotBound)
	assert.False(t, s.Status().Bound)
}

func TestSession_Rebind(t *testing.T) {
	s, first := newSession(t, testutil.HumanoidOptions{Twist: true})

	bad := rig.NewNode("Scene")
	shared := rig.NewBone("Hips", mgl64.Vec3{})
	bad.Add(shared)
	bad.Children = append(bad.Children, shared)
	_, err := s.Bind(bad, "bad.glb")
	assert.ErrorIs(t, err, rig.ErrNotTree)
	assert.Equal(t, first.ID, s.Status().RigID, "failed rebind keeps the previous rig")
	assert.Equal(t, "test.glb", s.Source())

	for i := 1; i <= 3; i++ {
		_, err := s.Update(body(bodyFrame(i, 0.9)))
		require.NoError(t, err)
	}
	require.False(t, first.Group(rig.Body).AtRest())

	second, err := s.Bind(first.Root, "test.glb")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	fresh, err := rig.NewBinder(rig.DefaultNames()).Bind(testutil.Humanoid(testutil.HumanoidOptions{Twist: true}))
	require.NoError(t, err)
	for _, region := range rig.Regions {
		assert.Equal(t, fresh.Group(region).Rest, second.Group(region).Rest, region.String())
		assert.True(t, second.Group(region).AtRest(), region.String())
	}
}

func TestSession_BindWithReplacesLayout(t *testing.T) {
	s, _ := newSession(t, testutil.HumanoidOptions{})
	s.AddAccessory("props/hat.glb")
	watch := accessory.New("props/watch.glb")
	watch.BoneName = "LeftHand"

	next, err := s.BindWith(testutil.Humanoid(testutil.HumanoidOptions{}), "b.glb", []accessory.Accessory{watch})
	require.NoError(t, err)
	b := s.Bindings()
	require.Len(t, b, 1)
	assert.Equal(t, watch.ID, b[0].Accessory.ID)
	assert.True(t, b[0].Resolved)
	n, _ := next.Exact("LeftHand")
	assert.Same(t, n, b[0].Node())

	bad := rig.NewNode("Scene")
	shared := rig.NewBone("Hips", mgl64.Vec3{})
	bad.Add(shared)
	bad.Children = append(bad.Children, shared)
	_, err = s.BindWith(bad, "bad.glb", nil)
	assert.ErrorIs(t, err, rig.ErrNotTree)
	assert.Equal(t, "b.glb", s.Source())
	assert.Len(t, s.Accessories(), 1, "failed bind keeps the layout")
}

func TestSession_UpdateTrackingConcurrentPatches(t *testing.T) {
	s, _ := newSession(t, testutil.HumanoidOptions{})
	for i := 0; i < 200; i++ {
		s.SetTracking(avatar.DefaultTracking())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.UpdateTracking(avatar.TrackingPatch{Face: ptr(false)})
		}()
		go func() {
			defer wg.Done()
			s.UpdateTracking(avatar.TrackingPatch{Hands: ptr(false)})
		}()
		wg.Wait()

		got := s.Tracking()
		require.False(t, got.Face, "iteration %d", i)
		require.False(t, got.Hands, "iteration %d", i)
		require.True(t, got.Body, "iteration %d", i)
	}
}

func TestSession_Accessories(t *testing.T) {
	s, err := avatar.NewSession(avatar.DefaultConfig())
	require.NoError(t, err)

	hat := s.AddAccessory("props/hat.glb")
	watch := s.AddAccessory("props/watch.glb")
	bone := "RightHand"
	_, err = s.UpdateAccessory(watch.ID, accessory.Patch{BoneName: &bone})
	require.NoError(t, err)
	assert.False(t, s.Bindings()[0].Resolved)

	_, err = s.Bind(testutil.Humanoid(testutil.HumanoidOptions{Omit: []string{"RightHand"}}), "a.glb")
	require.NoError(t, err)
	b := s.Bindings()
	assert.True(t, b[0].Resolved)
	assert.False(t, b[1].Resolved)

	_, err = s.Bind(testutil.Humanoid(testutil.HumanoidOptions{}), "b.glb")
	require.NoError(t, err)
	assert.True(t, s.Bindings()[1].Resolved)
	assert.Len(t, s.Pose().Accessories, 2)

	require.NoError(t, s.RemoveAccessory(hat.ID))
	assert.ErrorIs(t, s.RemoveAccessory(hat.ID), accessory.ErrNotFound)
	assert.Len(t, s.Accessories(), 1)
}

func TestSession_Tuning(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{Twist: true})
	_, err := s.Update(body(bodyFrame(1, 0.9)))
	require.NoError(t, err)

	s.SetTuning(avatar.TuningParams{BodyWindow: 1, VisibilityThreshold: ptr(0.95)})
	got := s.Tuning()
	assert.Equal(t, 1, got.BodyWindow)
	assert.Equal(t, 2, got.HandWindow, "zero values are not applied")
	require.NotNil(t, got.VisibilityThreshold)
	assert.Equal(t, 0.95, *got.VisibilityThreshold)
	assert.Zero(t, s.Status().Pending["body"])

	p, err := s.Update(body(bodyFrame(2, 0.9)))
	require.NoError(t, err)
	assert.False(t, r.Group(rig.Body).AtRest(), "window of 1 emits immediately")
	assert.False(t, p.LegsEnabled, "threshold raised above hip visibility")

	s.SetTuning(avatar.TuningParams{MirrorHandedness: ptr(false)})
	in := avatar.FrameInput{Hands: []landmark.HandResult{{Handedness: landmark.Left, WorldLandmarks: testutil.FlatHand(-1)}}}
	for i := 0; i < 2; i++ {
		_, err = s.Update(in)
		require.NoError(t, err)
	}
	assert.False(t, r.Group(rig.LeftHand).AtRest())
	assert.True(t, r.Group(rig.RightHand).AtRest())
}

func TestSession_TuningZeroThreshold(t *testing.T) {
	s, _ := newSession(t, testutil.HumanoidOptions{Twist: true})
	s.SetTuning(avatar.TuningParams{VisibilityThreshold: ptr(0.0)})
	require.NotNil(t, s.Tuning().VisibilityThreshold)
	assert.Zero(t, *s.Tuning().VisibilityThreshold)

	p, err := s.Update(body(bodyFrame(1, 0.01)))
	require.NoError(t, err)
	assert.True(t, p.LegsEnabled, "any visible hip passes a zero threshold")

	s.SetTuning(avatar.TuningParams{BodyWindow: 4})
	assert.Zero(t, *s.Tuning().VisibilityThreshold, "nil threshold leaves it unchanged")
}

func TestSession_MirrorFlipResetsHands(t *testing.T) {
	s, r := newSession(t, testutil.HumanoidOptions{})
	in := avatar.FrameInput{Hands: []landmark.HandResult{{Handedness: landmark.Left, WorldLandmarks: testutil.FlatHand(1)}}}
	for i := 0; i < 3; i++ {
		_, err := s.Update(in)
		require.NoError(t, err)
	}
	require.False(t, r.Group(rig.RightHand).AtRest())

	s.SetTuning(avatar.TuningParams{MirrorHandedness: ptr(false)})
	assert.True(t, r.Group(rig.RightHand).AtRest())
	assert.True(t, r.Group(rig.LeftHand).AtRest())
	assert.Zero(t, s.Status().Pending["left_hand"])
	assert.Zero(t, s.Status().Pending["right_hand"])

	s.SetTuning(avatar.TuningParams{MirrorHandedness: ptr(false)})
	_, err := s.Update(in)
	require.NoError(t, err)
	assert.True(t, r.Group(rig.LeftHand).AtRest(), "hand window restarts after the flip")
}

func TestSession_FPS(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	s, err := avatar.NewSession(avatar.DefaultConfig(), avatar.WithClock(clock))
	require.NoError(t, err)
	_, err = s.Bind(testutil.Humanoid(testutil.HumanoidOptions{}), "a.glb")
	require.NoError(t, err)

	for i := 0; i < 31; i++ {
		now = now.Add(time.Second / 30)
		_, err := s.Update(avatar.FrameInput{})
		require.NoError(t, err)
	}
	st := s.Status()
	assert.InDelta(t, 30, st.FPS, 1)
	assert.Equal(t, uint64(31), st.Frames)

	now = now.Add(5 * time.Second)
	assert.Zero(t, s.Status().FPS)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*avatar.Config)
		wantErr bool
	}{
		{"default", func(*avatar.Config) {}, false},
		{"zero body window", func(c *avatar.Config) { c.BodyWindow = 0 }, true},
		{"zero hand window", func(c *avatar.Config) { c.HandWindow = 0 }, true},
		{"threshold above one", func(c *avatar.Config) { c.VisibilityThreshold = 1.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := avatar.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				_, err = avatar.NewSession(cfg)
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NoError(t, avatar.ResponsiveConfig().Validate())
	assert.NoError(t, avatar.StableConfig().Validate())
}

func ptr[T any](v T) *T { return &v }
