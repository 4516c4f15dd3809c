// Package accessory tracks props attached to avatar bones by name.
//
// An accessory holds only a bone name. The name is resolved against the
// current rig whenever the rig changes or the accessory is moved to another
// bone; an accessory whose bone cannot be found is kept but not rendered.
package accessory

import (
	"path"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DefaultBone is the attachment bone of a newly added accessory.
const DefaultBone = "Head"

// Accessory is a prop attached to a bone with a local transform.
type Accessory struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Source   string     `json:"source"`
	BoneName string     `json:"boneName"`
	Position mgl64.Vec3 `json:"position"`
	Rotation mgl64.Vec3 `json:"rotation"` // Euler XYZ, radians
	Scale    mgl64.Vec3 `json:"scale"`
}

// New creates an accessory for an asset, named after the asset's file and
// attached to DefaultBone at the bone origin.
func New(source string) Accessory {
	return Accessory{
		ID:       uuid.NewString(),
		Name:     nameFromSource(source),
		Source:   source,
		BoneName: DefaultBone,
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

func nameFromSource(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	base := path.Base(strings.ReplaceAll(source, "\\", "/"))
	if base == "." || base == "/" {
		return "accessory"
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// LocalRotation returns the accessory's rotation as a quaternion.
func (a Accessory) LocalRotation() mgl64.Quat {
	return mgl64.AnglesToQuat(a.Rotation[0], a.Rotation[1], a.Rotation[2], mgl64.XYZ)
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Name     *string     `json:"name,omitempty"`
	BoneName *string     `json:"boneName,omitempty"`
	Position *mgl64.Vec3 `json:"position,omitempty"`
	Rotation *mgl64.Vec3 `json:"rotation,omitempty"`
	Scale    *mgl64.Vec3 `json:"scale,omitempty"`
}

// Apply returns a with the patch applied.
func (p Patch) Apply(a Accessory) Accessory {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.BoneName != nil {
		a.BoneName = *p.BoneName
	}
	if p.Position != nil {
		a.Position = *p.Position
	}
	if p.Rotation != nil {
		a.Rotation = *p.Rotation
	}
	if p.Scale != nil {
		a.Scale = *p.Scale
	}
	return a
}
