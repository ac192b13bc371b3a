package blend

import "errors"

// Blender construction errors. A motion with no frames is reported as
// motion.ErrEmptyMotion.
var (
	// ErrNilMotion is returned when either motion is missing.
	ErrNilMotion = errors.New("blend: nil motion")

	// ErrSkeletonMismatch is returned when the two motions cannot be blended
	// bone for bone.
	ErrSkeletonMismatch = errors.New("blend: skeleton mismatch")

	// ErrInterp is returned by ParseInterp for an unknown mode name.
	ErrInterp = errors.New("blend: unknown interpolation mode")
)
