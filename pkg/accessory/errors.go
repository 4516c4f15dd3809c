package accessory

import "errors"

// ErrNotFound is returned for an unknown accessory id.
var ErrNotFound = errors.New("accessory: not found")
