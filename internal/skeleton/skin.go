package skeleton

import (
	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/mathutil"
)

// ApplyTransforms returns copies of meshes with every vertex moved by its
// bone's world matrix. Rigid skinning: 1 bone per vertex, weight = 1.0.
// Vertices bound to an unknown bone keep their model-space position.
func ApplyTransforms(meshes []bmd.Mesh, worlds []mathutil.Mat4) []bmd.Mesh {
	out := make([]bmd.Mesh, len(meshes))
	for mi, mesh := range meshes {
		posed := mesh
		posed.Verts = make([][3]float32, len(mesh.Verts))
		for vi, v := range mesh.Verts {
			boneIdx := -1
			if vi < len(mesh.Nodes) {
				boneIdx = int(mesh.Nodes[vi])
			}
			if boneIdx < 0 || boneIdx >= len(worlds) {
				posed.Verts[vi] = v
				continue
			}
			t := worlds[boneIdx].MulPoint(mathutil.Vec3From32(v))
			posed.Verts[vi] = [3]float32{float32(t[0]), float32(t[1]), float32(t[2])}
		}
		out[mi] = posed
	}
	return out
}
