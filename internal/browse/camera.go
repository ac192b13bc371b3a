package browse

import (
	"math"

	"mu-bmd-blender/internal/mathutil"
)

const maxPitch = 0.4 * math.Pi

// Camera is a look-at viewpoint.
type Camera struct {
	Eye    mathutil.Vec3
	Target mathutil.Vec3

	MinDistance float64
	MaxDistance float64

	base float64
}

// NewCamera looks at target from distance along the (1,1,1) diagonal.
func NewCamera(target mathutil.Vec3, distance float64) Camera {
	dir := mathutil.Vec3{1, 1, 1}.Normalize()
	return Camera{
		Eye:         target.Add(dir.Scale(distance)),
		Target:      target,
		MinDistance: distance / 10,
		MaxDistance: distance * 10,
		base:        distance,
	}
}

// Magnification is the starting distance over the current one: 2 after
// zooming halfway in. Cameras not built by NewCamera report 1.
func (c Camera) Magnification() float64 {
	d := c.Distance()
	if c.base <= 0 || d <= 0 {
		return 1
	}
	return c.base / d
}

// Distance returns the eye to target length.
func (c Camera) Distance() float64 {
	return c.Eye.Sub(c.Target).Len()
}

// Follow moves eye and target together so the target lands on p.
func (c *Camera) Follow(p mathutil.Vec3) {
	delta := p.Sub(c.Target)
	c.Target = c.Target.Add(delta)
	c.Eye = c.Eye.Add(delta)
}

// Orbit turns the eye around the target. Pitch is kept within ±0.4π.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	v := c.Eye.Sub(c.Target)
	l := v.Len()
	yaw := math.Atan2(v[2], v[0]) + dYaw
	pitch := math.Atan2(v[1], math.Hypot(v[0], v[2])) + dPitch
	pitch = math.Max(-maxPitch, math.Min(maxPitch, pitch))
	dir := mathutil.Vec3{math.Cos(yaw) * math.Cos(pitch), math.Sin(pitch), math.Sin(yaw) * math.Cos(pitch)}
	c.Eye = c.Target.Add(dir.Scale(l))
}

// Zoom scales the viewing distance by factor, clamped to the camera limits.
func (c *Camera) Zoom(factor float64) {
	v := c.Eye.Sub(c.Target)
	l := v.Len() * factor
	if c.MinDistance > 0 {
		l = math.Max(c.MinDistance, l)
	}
	if c.MaxDistance > 0 {
		l = math.Min(c.MaxDistance, l)
	}
	c.Eye = c.Target.Add(v.Normalize().Scale(l))
}
