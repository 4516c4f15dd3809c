package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-avatar/pkg/accessory"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "avatar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	clock := time.UnixMilli(1_000)
	s.now = func() time.Time {
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_SaveListDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	hat := accessory.New("hat.glb")
	hat.Position = mgl64.Vec3{0, 0.12, 0.01}
	hat.Rotation = mgl64.Vec3{0.1, 0, 0}
	watch := accessory.New("watch.glb")
	watch.BoneName = "LeftHand"
	other := accessory.New("crown.glb")

	require.NoError(t, s.Save(ctx, "a.glb", hat))
	require.NoError(t, s.Save(ctx, "a.glb", watch))
	require.NoError(t, s.Save(ctx, "b.glb", other))

	got, err := s.List(ctx, "a.glb")
	require.NoError(t, err)
	if diff := cmp.Diff([]accessory.Accessory{hat, watch}, got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}

	hat.BoneName = "Neck"
	hat.Scale = mgl64.Vec3{2, 2, 2}
	require.NoError(t, s.Save(ctx, "a.glb", hat))
	got, err = s.List(ctx, "a.glb")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, hat, got[0], "update keeps insertion order")

	require.NoError(t, s.Delete(ctx, "a.glb", watch.ID))
	assert.ErrorIs(t, s.Delete(ctx, "a.glb", watch.ID), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a.glb", other.ID), ErrNotFound, "delete is scoped to the avatar")

	avatars, err := s.Avatars(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.glb", "b.glb"}, avatars)
}

func TestStore_ListUnknownAvatar(t *testing.T) {
	got, err := openTestStore(t).List(context.Background(), "missing.glb")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SaveValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	assert.Error(t, s.Save(ctx, "", accessory.New("hat.glb")))
	assert.Error(t, s.Save(ctx, "a.glb", accessory.Accessory{}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Save(cancelled, "a.glb", accessory.New("hat.glb")), context.Canceled)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "avatar.db")

	s, err := Open(path)
	require.NoError(t, err)
	hat := accessory.New("hat.glb")
	require.NoError(t, s.Save(ctx, "a.glb", hat))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.List(ctx, "a.glb")
	require.NoError(t, err)
	assert.Equal(t, []accessory.Accessory{hat}, got)
}
