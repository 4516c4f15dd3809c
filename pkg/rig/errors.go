package rig

import "errors"

var (
	// ErrNilRig is returned when binding without a rig root.
	ErrNilRig = errors.New("rig root is nil")

	// ErrNotTree is returned when a node is reachable twice from the root.
	ErrNotTree = errors.New("rig hierarchy is not a tree")

	// ErrNoScene is returned when an asset contains no nodes.
	ErrNoScene = errors.New("asset has no scene nodes")
)
