package retarget

// Config holds the retargeting parameters.
type Config struct {
	// MirrorHandedness drives the rig's right hand from the detector's
	// "Left" hand and vice versa.
	MirrorHandedness bool

	// FaceCategories restricts which blendshape categories are applied.
	// Empty applies every category the detector reports.
	FaceCategories []string

	MinBodyBones int // Body pass is skipped below this many resolved bones
	MinLegBones  int // Legs pass is skipped below this many resolved bones
}

// DefaultConfig returns the configuration used for selfie-view webcams.
func DefaultConfig() Config {
	return Config{
		MirrorHandedness: true,
		MinBodyBones:     8,
		MinLegBones:      6,
	}
}
