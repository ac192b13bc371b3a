package motion

import "errors"

// Motion errors.
var (
	// ErrEmptyMotion is returned for a motion with zero frames. Such a motion
	// cannot be played or blended.
	ErrEmptyMotion = errors.New("motion: no frames")

	// ErrBoneCount is returned when a frame's bone list does not match the skeleton.
	ErrBoneCount = errors.New("motion: bone count does not match skeleton")

	// ErrTimestep is returned for a non-positive frame timestep.
	ErrTimestep = errors.New("motion: timestep must be positive")

	// ErrNoAction is returned when an action index is out of range.
	ErrNoAction = errors.New("motion: no such action")

	// ErrNotFound is returned by Library lookups for an unknown index or name.
	ErrNotFound = errors.New("motion: not found")
)
