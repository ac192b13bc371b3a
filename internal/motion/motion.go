// Package motion holds immutable skeletal animation clips and the library
// that loads them from BMD models.
package motion

import (
	"fmt"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/skeleton"
)

// FrameIndex is a raw frame number within one motion.
type FrameIndex int

// Motion is a fixed-rate sequence of poses over one skeleton.
// It is read-only after construction and safe to share.
type Motion struct {
	Name     string
	Skeleton *skeleton.Skeleton

	frames   []Pose
	timestep float64
}

// New validates frames against sk and wraps them as a motion.
func New(name string, sk *skeleton.Skeleton, frames []Pose, timestep float64) (*Motion, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyMotion, name)
	}
	if timestep <= 0 {
		return nil, fmt.Errorf("%w: %s (%g)", ErrTimestep, name, timestep)
	}
	if sk != nil {
		for i, f := range frames {
			if len(f.BoneOrientations) != sk.BoneCount() {
				return nil, fmt.Errorf("%w: %s frame %d has %d bones, skeleton %d",
					ErrBoneCount, name, i, len(f.BoneOrientations), sk.BoneCount())
			}
		}
	}
	return &Motion{Name: name, Skeleton: sk, frames: frames, timestep: timestep}, nil
}

// FrameCount returns the number of frames.
func (m *Motion) FrameCount() int {
	return len(m.frames)
}

// Timestep returns seconds per frame.
func (m *Motion) Timestep() float64 {
	return m.timestep
}

// Duration returns the playing time in seconds.
func (m *Motion) Duration() float64 {
	return float64(len(m.frames)) * m.timestep
}

// BoneCount returns the number of bone orientations in each frame.
func (m *Motion) BoneCount() int {
	if len(m.frames) == 0 {
		return 0
	}
	return len(m.frames[0].BoneOrientations)
}

// Compatible reports whether a and b can be blended bone for bone.
func Compatible(a, b *Motion) bool {
	if a.BoneCount() != b.BoneCount() {
		return false
	}
	if a.Skeleton != nil && b.Skeleton != nil {
		return skeleton.Compatible(a.Skeleton, b.Skeleton)
	}
	return true
}

// Pose returns a copy of frame i. Out-of-range indices are clamped to the
// first or last frame; callers are expected to stay in range.
func (m *Motion) Pose(i FrameIndex) Pose {
	return m.frame(i).Clone()
}

func (m *Motion) frame(i FrameIndex) *Pose {
	if i < 0 {
		i = 0
	}
	if int(i) >= len(m.frames) {
		i = FrameIndex(len(m.frames) - 1)
	}
	return &m.frames[i]
}

// RootPosition returns the clip-local root position of frame i without
// copying the bone list.
func (m *Motion) RootPosition(i FrameIndex) mathutil.Vec3 {
	return m.frame(i).RootPosition
}

// StateDelta is the planar displacement and heading change between two frames.
type StateDelta struct {
	Position mathutil.Vec3 // horizontal only
	Yaw      float64
}

// Delta returns how far the root travelled and turned from frame a to frame b.
func (m *Motion) Delta(a, b FrameIndex) StateDelta {
	pa, pb := m.frame(a), m.frame(b)
	return StateDelta{
		Position: pb.RootPosition.Sub(pa.RootPosition).Horizontal(),
		Yaw:      mathutil.WrapAngle(mathutil.YawAngle(pb.RootOrientation) - mathutil.YawAngle(pa.RootOrientation)),
	}
}

// FromAction converts one BMD action into a motion sampled at fps keys per
// second. The root track is converted from the model's Z-up frame; every
// other bone keeps its local Euler rotation as a quaternion.
func FromAction(m *bmd.Model, sk *skeleton.Skeleton, action int, fps float64) (*Motion, error) {
	if action < 0 || action >= len(m.Actions) {
		return nil, fmt.Errorf("%w: %s action %d", ErrNoAction, m.Name, action)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("%w: %s fps %g", ErrTimestep, m.Name, fps)
	}
	name := fmt.Sprintf("%s#%02d", m.Name, action)
	keys := m.Actions[action].Keys

	frames := make([]Pose, keys)
	for k := 0; k < keys; k++ {
		p := NewPose(len(m.Bones))
		for i, b := range m.Bones {
			if b.IsDummy || action >= len(b.Tracks) || k >= len(b.Tracks[action].Rotations) {
				continue
			}
			tr := b.Tracks[action]
			r := tr.Rotations[k]
			q := mathutil.EulerToQuat(r[0], r[1], r[2])
			if i == sk.Root {
				p.RootOrientation = mathutil.QuatMul(mathutil.ModelFlipQuat, q)
				p.RootPosition = mathutil.ModelFlip.MulVec3(mathutil.Vec3(tr.Positions[k]))
				continue
			}
			p.BoneOrientations[i] = q
		}
		frames[k] = p
	}
	return New(name, sk, frames, 1/fps)
}
