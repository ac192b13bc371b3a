// Package testutil provides shared test fixtures: synthetic skeletal models
// and an in-memory BMD encoder, so tests never depend on binary assets.
package testutil

import (
	"bytes"
	"encoding/binary"
	"math"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/crypto"
)

// EncodeBMD serializes m as an unencrypted version 10 BMD file.
func EncodeBMD(m *bmd.Model) []byte {
	var buf bytes.Buffer
	buf.WriteString("BMD")
	buf.WriteByte(10)
	buf.Write(encodeBody(m))
	return buf.Bytes()
}

// EncodeBMDv12 serializes m as a chained-XOR version 12 BMD file.
func EncodeBMDv12(m *bmd.Model) []byte {
	body := encodeBody(m)
	var buf bytes.Buffer
	buf.WriteString("BMD")
	buf.WriteByte(12)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(encryptXOR(body))
	return buf.Bytes()
}

func encryptXOR(plain []byte) []byte {
	out := make([]byte, len(plain))
	chainKey := byte(0x5E)
	for i, p := range plain {
		out[i] = (p + chainKey) ^ crypto.XORKey[i&15]
		chainKey = out[i] + 0x3D
	}
	return out
}

type writer struct {
	bytes.Buffer
}

func (w *writer) str(s string, n int) {
	b := make([]byte, n)
	copy(b, s)
	w.Write(b)
}

func (w *writer) i16(v int) {
	_ = binary.Write(w, binary.LittleEndian, int16(v))
}

func (w *writer) f32(v float64) {
	_ = binary.Write(w, binary.LittleEndian, math.Float32bits(float32(v)))
}

func (w *writer) vec3(v [3]float64) {
	w.f32(v[0])
	w.f32(v[1])
	w.f32(v[2])
}

func encodeBody(m *bmd.Model) []byte {
	var w writer
	w.str(m.Name, 32)
	w.i16(len(m.Meshes))
	w.i16(len(m.Bones))
	w.i16(len(m.Actions))

	for _, mesh := range m.Meshes {
		w.i16(len(mesh.Verts))
		w.i16(len(mesh.Normals))
		w.i16(len(mesh.UVs))
		w.i16(len(mesh.Tris))
		w.i16(0)
		for i, v := range mesh.Verts {
			w.i16(int(mesh.Nodes[i]))
			w.i16(0)
			w.vec3([3]float64{float64(v[0]), float64(v[1]), float64(v[2])})
		}
		for _, n := range mesh.Normals {
			w.i16(0)
			w.i16(0)
			w.vec3([3]float64{float64(n[0]), float64(n[1]), float64(n[2])})
			w.i16(0)
			w.i16(0)
		}
		for _, uv := range mesh.UVs {
			w.f32(float64(uv[0]))
			w.f32(float64(uv[1]))
		}
		for _, tri := range mesh.Tris {
			rec := make([]byte, 64)
			rec[0] = byte(tri.Polygon)
			for k := 0; k < 4; k++ {
				binary.LittleEndian.PutUint16(rec[2+k*2:], uint16(tri.VI[k]))
				binary.LittleEndian.PutUint16(rec[10+k*2:], uint16(tri.NI[k]))
				binary.LittleEndian.PutUint16(rec[18+k*2:], uint16(tri.TI[k]))
			}
			w.Write(rec)
		}
		w.str(mesh.TexPath, 32)
	}

	for _, a := range m.Actions {
		w.i16(a.Keys)
		if a.LockPositions {
			w.WriteByte(1)
			for k := 0; k < a.Keys; k++ {
				w.vec3(a.RootPositions[k])
			}
		} else {
			w.WriteByte(0)
		}
	}

	for _, b := range m.Bones {
		if b.IsDummy {
			w.WriteByte(1)
			continue
		}
		w.WriteByte(0)
		w.str(b.Name, 32)
		w.i16(b.Parent)
		for a, action := range m.Actions {
			if action.Keys == 0 {
				continue
			}
			tr := b.Tracks[a]
			for k := 0; k < action.Keys; k++ {
				w.vec3(tr.Positions[k])
			}
			for k := 0; k < action.Keys; k++ {
				w.vec3(tr.Rotations[k])
			}
		}
	}
	return w.Bytes()
}
