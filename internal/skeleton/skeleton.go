// Package skeleton describes a bone hierarchy and turns per-bone
// orientations into world transforms for skinning.
package skeleton

import (
	"errors"
	"fmt"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/mathutil"
)

// ErrNoRoot is returned when a model has no usable root bone.
var ErrNoRoot = errors.New("skeleton: no root bone")

// Bone is one joint of the hierarchy.
type Bone struct {
	Name   string
	Parent int // -1 when attached to the root frame
	Dummy  bool
	Offset mathutil.Vec3 // bind translation relative to the parent
}

// Skeleton is an ordered bone list. Index order matches BMD bone order, so
// parents always precede their children.
type Skeleton struct {
	Name  string
	Bones []Bone
	Root  int
}

// FromModel builds the skeleton of a parsed BMD model. The root is the first
// non-dummy bone without a parent; other parentless bones and bones with a
// forward parent reference are attached to the root.
func FromModel(m *bmd.Model) (*Skeleton, error) {
	sk := &Skeleton{Name: m.Name, Root: -1, Bones: make([]Bone, len(m.Bones))}
	for i, b := range m.Bones {
		if sk.Root < 0 && !b.IsDummy && b.Parent < 0 {
			sk.Root = i
		}
		sk.Bones[i] = Bone{
			Name:   b.Name,
			Parent: b.Parent,
			Dummy:  b.IsDummy,
			Offset: mathutil.Vec3(b.BindPosition),
		}
	}
	if sk.Root < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRoot, m.Name)
	}
	for i := range sk.Bones {
		b := &sk.Bones[i]
		if i == sk.Root {
			b.Parent = -1
			continue
		}
		if b.Parent < 0 || b.Parent >= i {
			b.Parent = sk.Root
		}
	}
	return sk, nil
}

// BoneCount returns the number of bones, dummies included.
func (s *Skeleton) BoneCount() int {
	return len(s.Bones)
}

// Compatible reports whether poses of a and b can be blended bone for bone.
func Compatible(a, b *Skeleton) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || len(a.Bones) != len(b.Bones) || a.Root != b.Root {
		return false
	}
	for i := range a.Bones {
		if a.Bones[i].Parent != b.Bones[i].Parent {
			return false
		}
	}
	return true
}

// WorldMatrices chains local orientations down the hierarchy. root places
// the root bone in world space; local holds one orientation per bone (the
// root entry is ignored). Dummy bones inherit their parent's transform.
func (s *Skeleton) WorldMatrices(root mathutil.Mat4, local []mathutil.Quat) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		if i == s.Root {
			worlds[i] = root
			continue
		}
		parent := root
		if b.Parent >= 0 && b.Parent < i {
			parent = worlds[b.Parent]
		}
		if b.Dummy {
			worlds[i] = parent
			continue
		}
		q := mathutil.QuatIdentity()
		if i < len(local) {
			q = local[i]
		}
		worlds[i] = mathutil.Mat4Mul(parent, mathutil.FromQuatTranslation(q, b.Offset))
	}
	return worlds
}

// Tips returns the world-space origin of every bone.
func Tips(worlds []mathutil.Mat4) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(worlds))
	for i, w := range worlds {
		out[i] = w.Translation()
	}
	return out
}
