// Package worldstate stitches clip-local root motion into one continuous
// world trajectory.
package worldstate

import (
	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/motion"
)

// GlobalState is the accumulated world placement of a motion stream.
// It is a plain value; assignment copies it.
type GlobalState struct {
	Position    mathutil.Vec3
	Orientation mathutil.Quat
}

// NewGlobalState returns a cleared state.
func NewGlobalState() GlobalState {
	return GlobalState{Orientation: mathutil.QuatIdentity()}
}

// Clear resets to the world origin facing forward.
func (g *GlobalState) Clear() {
	*g = NewGlobalState()
}

// Apply moves pose from clip-local space into world space: the root
// position is rotated by Orientation and offset by Position, and the root
// orientation is pre-multiplied by Orientation.
func (g GlobalState) Apply(pose *motion.Pose) {
	pose.RootPosition = mathutil.Rotate(pose.RootPosition, g.Orientation).Add(g.Position)
	pose.RootOrientation = mathutil.QuatMul(g.Orientation, pose.RootOrientation)
}

// Yaw returns the accumulated heading in radians.
func (g GlobalState) Yaw() float64 {
	return mathutil.YawAngle(g.Orientation)
}

// VelocityControl integrates a desired root velocity into a GlobalState.
type VelocityControl struct {
	DesiredVelocity mathutil.Vec3 // per unit of dt, clip-local
}

// Clear zeroes the desired velocity.
func (v *VelocityControl) Clear() {
	v.DesiredVelocity = mathutil.Vec3{}
}

// ApplyTo advances g by DesiredVelocity over dt. Only the horizontal
// component is integrated and it is turned into g's heading first.
func (v VelocityControl) ApplyTo(g *GlobalState, dt float64) {
	step := mathutil.Rotate(v.DesiredVelocity.Horizontal(), g.Orientation).Horizontal()
	g.Position = g.Position.Add(step.Scale(dt))
}
