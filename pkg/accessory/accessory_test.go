package accessory_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-avatar/internal/testutil"
	"github.com/teslashibe/go-avatar/pkg/accessory"
	"github.com/teslashibe/go-avatar/pkg/rig"
)

func bind(t *testing.T, opts testutil.HumanoidOptions) *rig.Session {
	t.Helper()
	s, err := rig.NewBinder(rig.DefaultNames()).Bind(testutil.Humanoid(opts))
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"assets/hats/TopHat.glb", "TopHat"},
		{"https://cdn.example.com/props/sunglasses.gltf?v=3", "sunglasses"},
		{`C:\props\crown.glb`, "crown"},
		{"", "accessory"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			a := accessory.New(tt.source)
			assert.Equal(t, tt.want, a.Name)
			assert.Equal(t, tt.source, a.Source)
			assert.Equal(t, accessory.DefaultBone, a.BoneName)
			assert.Equal(t, mgl64.Vec3{1, 1, 1}, a.Scale)
			assert.Equal(t, mgl64.Vec3{}, a.Position)
			assert.NotEmpty(t, a.ID)
		})
	}

	assert.NotEqual(t, accessory.New("a.glb").ID, accessory.New("a.glb").ID)
}

func TestResolve(t *testing.T) {
	plain := bind(t, testutil.HumanoidOptions{})
	mixamo := bind(t, testutil.HumanoidOptions{Prefix: rig.MixamoPrefix})

	tests := []struct {
		name    string
		s       *rig.Session
		bone    string
		want    string
		resolve bool
	}{
		{"exact", plain, "LeftHand", "LeftHand", true},
		{"prefixed rig", mixamo, "Head", "mixamorig:Head", true},
		{"case insensitive", plain, "spine2", "Spine2", true},
		{"missing bone", plain, "Tail", "", false},
		{"no rig", nil, "Head", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := accessory.New("hat.glb")
			a.BoneName = tt.bone
			n, ok := accessory.Resolve(a, tt.s)
			require.Equal(t, tt.resolve, ok)
			if ok {
				assert.Equal(t, tt.want, n.Name)
			}
		})
	}
}

func TestTable_RebindAndRetain(t *testing.T) {
	tbl := accessory.NewTable()
	hat := accessory.New("hat.glb")
	watch := accessory.New("watch.glb")
	watch.BoneName = "RightHand"
	tbl.Add(hat)
	tbl.Add(watch)

	for _, b := range tbl.Bindings() {
		assert.False(t, b.Resolved, "nothing resolves before a rig is bound")
	}

	tbl.Rebind(bind(t, testutil.HumanoidOptions{Omit: []string{"RightHand"}}))
	got := tbl.Bindings()
	require.Len(t, got, 2)
	assert.True(t, got[0].Resolved)
	assert.Equal(t, "Head", got[0].Bone)
	assert.False(t, got[1].Resolved, "unresolved accessories are retained")
	assert.Nil(t, got[1].Node())

	tbl.Rebind(bind(t, testutil.HumanoidOptions{}))
	got = tbl.Bindings()
	assert.True(t, got[1].Resolved)
	assert.Equal(t, "RightHand", got[1].Node().Name)
}

func TestTable_UpdateReresolvesOnBoneChange(t *testing.T) {
	s := bind(t, testutil.HumanoidOptions{})
	tbl := accessory.NewTable()
	tbl.Rebind(s)
	hat := accessory.New("hat.glb")
	tbl.Add(hat)

	bone := "Spine1"
	pos := mgl64.Vec3{0, 0.1, 0.2}
	a, err := tbl.Update(hat.ID, accessory.Patch{BoneName: &bone, Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, "Spine1", a.BoneName)
	assert.Equal(t, pos, a.Position)
	assert.Equal(t, "hat", a.Name)

	b := tbl.Bindings()[0]
	assert.Equal(t, "Spine1", b.Bone)
	assert.Equal(t, pos, b.Accessory.Position)

	_, err = tbl.Update("nope", accessory.Patch{})
	assert.ErrorIs(t, err, accessory.ErrNotFound)
}

func TestTable_RemoveAndReplace(t *testing.T) {
	tbl := accessory.NewTable()
	tbl.Rebind(bind(t, testutil.HumanoidOptions{}))
	a, b := accessory.New("a.glb"), accessory.New("b.glb")
	tbl.Add(a)
	tbl.Add(b)

	require.NoError(t, tbl.Remove(a.ID))
	assert.ErrorIs(t, tbl.Remove(a.ID), accessory.ErrNotFound)
	assert.Equal(t, []accessory.Accessory{b}, tbl.List())

	c := accessory.New("c.glb")
	c.BoneName = "LeftFoot"
	tbl.Replace([]accessory.Accessory{c})
	assert.Equal(t, 1, tbl.Len())
	_, ok := tbl.Get(b.ID)
	assert.False(t, ok)
	assert.Equal(t, "LeftFoot", tbl.Bindings()[0].Bone)
}

func TestLocalRotation(t *testing.T) {
	a := accessory.New("hat.glb")
	assert.True(t, a.LocalRotation().ApproxEqual(mgl64.QuatIdent()))

	a.Rotation = mgl64.Vec3{0, 0, 1.2}
	want := mgl64.QuatRotate(1.2, mgl64.Vec3{0, 0, 1})
	assert.True(t, a.LocalRotation().ApproxEqualThreshold(want, 1e-9))
}
