package motion

import (
	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/skeleton"
)

// Pose is the skeleton configuration at one instant: a local orientation per
// bone plus the placement of the root. Positions are Y-up.
type Pose struct {
	BoneOrientations []mathutil.Quat
	RootPosition     mathutil.Vec3
	RootOrientation  mathutil.Quat
}

// NewPose returns the rest pose for a skeleton with the given bone count.
func NewPose(bones int) Pose {
	p := Pose{BoneOrientations: make([]mathutil.Quat, bones)}
	p.Clear()
	return p
}

// Clear resets every orientation to identity and the root to the origin.
func (p *Pose) Clear() {
	for i := range p.BoneOrientations {
		p.BoneOrientations[i] = mathutil.QuatIdentity()
	}
	p.RootPosition = mathutil.Vec3{}
	p.RootOrientation = mathutil.QuatIdentity()
}

// Clone returns a deep copy.
func (p Pose) Clone() Pose {
	out := p
	out.BoneOrientations = append([]mathutil.Quat(nil), p.BoneOrientations...)
	return out
}

// RootMatrix places the root bone in world space.
func (p Pose) RootMatrix() mathutil.Mat4 {
	return mathutil.FromQuatTranslation(p.RootOrientation, p.RootPosition)
}

// World returns the world transform of every bone of sk in this pose.
func (p Pose) World(sk *skeleton.Skeleton) []mathutil.Mat4 {
	return sk.WorldMatrices(p.RootMatrix(), p.BoneOrientations)
}
