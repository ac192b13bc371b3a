package testutil

import (
	"fmt"
	"math"

	"mu-bmd-blender/internal/bmd"
)

// ClipSpec describes one synthetic action: a chain skeleton walking along
// BMD +X while every joint swings about its local X axis.
type ClipSpec struct {
	Keys   int
	Stride float64 // root advance per key along +X
	Height float64 // root Z (up)
	Swing  float64 // joint swing amplitude in radians
	Phase  float64
	Yaw    float64 // constant root heading about Z
}

// BoneLength is the spacing between chained bones.
const BoneLength = 10.0

// ChainModel builds a model whose bones form a single chain rooted at bone 0.
// Each clip becomes one action. A small quad mesh is skinned to every bone.
func ChainModel(name string, bones int, clips ...ClipSpec) *bmd.Model {
	m := &bmd.Model{Name: name}
	for _, c := range clips {
		m.Actions = append(m.Actions, bmd.Action{Keys: c.Keys})
	}

	for b := 0; b < bones; b++ {
		bone := bmd.Bone{
			Name:   fmt.Sprintf("bone%02d", b),
			Parent: b - 1,
			Tracks: make([]bmd.Track, len(clips)),
		}
		for a, c := range clips {
			tr := bmd.Track{
				Positions: make([][3]float64, c.Keys),
				Rotations: make([][3]float64, c.Keys),
			}
			for k := 0; k < c.Keys; k++ {
				angle := c.Swing * math.Sin(c.Phase+float64(k)*0.2+float64(b)*0.3)
				if b == 0 {
					tr.Positions[k] = [3]float64{float64(k) * c.Stride, 0, c.Height}
					tr.Rotations[k] = [3]float64{0, 0, c.Yaw}
				} else {
					tr.Positions[k] = [3]float64{0, 0, BoneLength}
					tr.Rotations[k] = [3]float64{angle, 0, 0}
				}
			}
			bone.Tracks[a] = tr
		}
		if len(clips) > 0 && clips[0].Keys > 0 {
			bone.BindPosition = bone.Tracks[0].Positions[0]
			bone.BindRotation = bone.Tracks[0].Rotations[0]
		}
		m.Bones = append(m.Bones, bone)
		m.Meshes = append(m.Meshes, boneQuad(b))
	}
	if len(m.Meshes) > 0 {
		m.Meshes = []bmd.Mesh{mergeMeshes(m.Meshes)}
	}
	return m
}

// boneQuad is a flat quad in the bone's local frame, spanning its length.
func boneQuad(bone int) bmd.Mesh {
	n := int16(bone)
	return bmd.Mesh{
		Verts: [][3]float32{
			{-2, 0, 0}, {2, 0, 0}, {2, 0, BoneLength}, {-2, 0, BoneLength},
		},
		Nodes:   []int16{n, n, n, n},
		Normals: [][3]float32{{0, -1, 0}},
		UVs:     [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Tris: []bmd.Triangle{
			{Polygon: 4, VI: [4]int16{0, 1, 2, 3}, TI: [4]int16{0, 1, 2, 3}},
		},
		TexPath: "body.jpg",
	}
}

func mergeMeshes(meshes []bmd.Mesh) bmd.Mesh {
	out := bmd.Mesh{TexPath: meshes[0].TexPath}
	for _, m := range meshes {
		base := int16(len(out.Verts))
		uvBase := int16(len(out.UVs))
		out.Verts = append(out.Verts, m.Verts...)
		out.Nodes = append(out.Nodes, m.Nodes...)
		out.Normals = append(out.Normals, m.Normals...)
		out.UVs = append(out.UVs, m.UVs...)
		for _, tri := range m.Tris {
			for k := range tri.VI {
				tri.VI[k] += base
				tri.TI[k] += uvBase
			}
			out.Tris = append(out.Tris, tri)
		}
	}
	return out
}
