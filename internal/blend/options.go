package blend

import (
	"fmt"

	"mu-bmd-blender/internal/distmap"
	"mu-bmd-blender/internal/mathutil"
)

// DefaultDivisor sets the blend window to a quarter of the shorter motion.
const DefaultDivisor = 4

// Interp selects how orientations are blended.
type Interp int

const (
	// InterpShortestArc blends along the shorter great arc (IdealSlerp).
	InterpShortestArc Interp = iota
	// InterpLegacy blends with plain Slerp and may take the long way round
	// when the two quaternions lie in opposite hemispheres.
	InterpLegacy
)

func (i Interp) String() string {
	switch i {
	case InterpShortestArc:
		return "shortest"
	case InterpLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Interp(%d)", int(i))
	}
}

// ParseInterp maps "shortest" (or "") and "legacy" to an Interp.
func ParseInterp(s string) (Interp, error) {
	switch s {
	case "", "shortest":
		return InterpShortestArc, nil
	case "legacy":
		return InterpLegacy, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInterp, s)
}

func (i Interp) slerp(a, b mathutil.Quat, t float64) mathutil.Quat {
	if i == InterpLegacy {
		return mathutil.Slerp(a, b, t)
	}
	return mathutil.IdealSlerp(a, b, t)
}

// Options configures a Blender. A zero Divisor means DefaultDivisor.
type Options struct {
	Divisor      int
	Interp       Interp
	SlopePenalty float64
}

// DefaultOptions returns the standard blending setup.
func DefaultOptions() Options {
	return Options{
		Divisor:      DefaultDivisor,
		Interp:       InterpShortestArc,
		SlopePenalty: distmap.DefaultSlopePenalty,
	}
}

// WindowFor returns the blend window for two motions of nFrom and nTo frames.
func (o Options) WindowFor(nFrom, nTo int) int {
	d := o.Divisor
	if d <= 0 {
		d = DefaultDivisor
	}
	return max(1, min(nFrom, nTo)/d)
}
