package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"mu-bmd-blender/internal/crypto"
)

var (
	// ErrNoLEAKey is returned for v15 files when no decryption key was configured.
	ErrNoLEAKey = errors.New("bmd: v15 file requires a LEA key")

	// ErrTruncated is returned when the payload ends before the declared contents.
	ErrTruncated = errors.New("bmd: truncated data")
)

// Options controls decoding of encrypted BMD variants.
type Options struct {
	LEAKey *[32]byte
}

// Parse reads a BMD file and returns its meshes, skeleton and actions.
// Supports versions 10 (unencrypted), 12 (XOR), and 15 (LEA-256 ECB).
func Parse(path string, opts Options) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseBytes(name, raw, opts)
}

// ParseBytes decodes an in-memory BMD file. name is used in errors and as
// the model name fallback.
func ParseBytes(name string, raw []byte, opts Options) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, fmt.Errorf("bmd: invalid header in %s", name)
	}

	version := raw[3]
	var data []byte

	switch version {
	case 15:
		if opts.LEAKey == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoLEAKey, name)
		}
		payload, err := sizedPayload(raw, name, version)
		if err != nil {
			return nil, err
		}
		data = crypto.DecryptLEA(payload, *opts.LEAKey)
	case 12:
		payload, err := sizedPayload(raw, name, version)
		if err != nil {
			return nil, err
		}
		data = crypto.DecryptXOR(payload)
	default:
		data = raw[4:]
	}

	r := &reader{data: data}
	m, err := r.parse(name)
	if err != nil {
		return nil, err
	}
	m.Version = version
	if m.Name == "" {
		m.Name = name
	}
	return m, nil
}

func sizedPayload(raw []byte, name string, version byte) ([]byte, error) {
	if len(raw) < 8 {
		return nil, fmt.Errorf("bmd: truncated v%d header in %s", version, name)
	}
	size := binary.LittleEndian.Uint32(raw[4:8])
	if 8+int(size) > len(raw) {
		return nil, fmt.Errorf("bmd: truncated v%d data in %s", version, name)
	}
	return raw[8 : 8+size], nil
}

type reader struct {
	data  []byte
	off   int
	short bool
}

func (r *reader) need(n int) bool {
	if r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return false
	}
	return true
}

func (r *reader) readStr(n int) string {
	if !r.need(n) {
		return ""
	}
	s := r.data[r.off : r.off+n]
	r.off += n
	// Find null terminator
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	return int16(r.readU16())
}

func (r *reader) readU16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) readF32() float32 {
	if !r.need(4) {
		return 0
	}
	v := math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off:]))
	r.off += 4
	return v
}

func (r *reader) readVec3() [3]float64 {
	x := float64(r.readF32())
	y := float64(r.readF32())
	z := float64(r.readF32())
	return [3]float64{x, y, z}
}

func (r *reader) readByte() byte {
	if !r.need(1) {
		return 0
	}
	b := r.data[r.off]
	r.off++
	return b
}

func (r *reader) parse(name string) (*Model, error) {
	modelName := r.readStr(32)
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())

	if meshCount > 100 {
		return nil, fmt.Errorf("bmd: invalid mesh count %d in %s", meshCount, name)
	}

	meshes := make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		meshes = append(meshes, r.parseMesh())
		if r.short {
			return nil, fmt.Errorf("%w: mesh %d in %s", ErrTruncated, i, name)
		}
	}

	actions := make([]Action, actionCount)
	for a := range actions {
		numKeys := int(r.readI16())
		if numKeys < 0 {
			return nil, fmt.Errorf("bmd: negative key count in action %d of %s", a, name)
		}
		actions[a].Keys = numKeys
		actions[a].LockPositions = r.readByte() > 0
		if actions[a].LockPositions {
			actions[a].RootPositions = make([][3]float64, numKeys)
			for k := range actions[a].RootPositions {
				actions[a].RootPositions[k] = r.readVec3()
			}
		}
	}
	if r.short {
		return nil, fmt.Errorf("%w: actions in %s", ErrTruncated, name)
	}

	bones := make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if r.readByte() > 0 {
			bones = append(bones, Bone{Parent: -1, IsDummy: true, Tracks: make([]Track, actionCount)})
			continue
		}

		bone := Bone{
			Name:   r.readStr(32),
			Parent: int(r.readI16()),
			Tracks: make([]Track, actionCount),
		}
		for a, action := range actions {
			if action.Keys == 0 {
				continue
			}
			tr := Track{
				Positions: make([][3]float64, action.Keys),
				Rotations: make([][3]float64, action.Keys),
			}
			for k := range tr.Positions {
				tr.Positions[k] = r.readVec3()
			}
			for k := range tr.Rotations {
				tr.Rotations[k] = r.readVec3()
			}
			bone.Tracks[a] = tr
		}
		// Bind pose is the first key of the first action that has one.
		for _, tr := range bone.Tracks {
			if len(tr.Positions) > 0 {
				bone.BindPosition = tr.Positions[0]
				bone.BindRotation = tr.Rotations[0]
				break
			}
		}
		if r.short {
			return nil, fmt.Errorf("%w: bone %d in %s", ErrTruncated, b, name)
		}
		bones = append(bones, bone)
	}

	return &Model{
		Name:    modelName,
		Meshes:  meshes,
		Bones:   bones,
		Actions: actions,
	}, nil
}

func (r *reader) parseMesh() Mesh {
	nv := int(r.readI16())
	nn := int(r.readI16())
	ntc := int(r.readI16())
	nt := int(r.readI16())
	_ = r.readI16() // texture index
	if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
		r.short = true
		return Mesh{}
	}

	// Vertices: 16 bytes each (node:i16, pad:i16, x:f32, y:f32, z:f32)
	verts := make([][3]float32, nv)
	nodes := make([]int16, nv)
	for j := 0; j < nv; j++ {
		nodes[j] = r.readI16()
		_ = r.readI16() // padding
		verts[j] = [3]float32{r.readF32(), r.readF32(), r.readF32()}
	}

	// Normals: 20 bytes each (node:i16, pad:i16, nx:f32, ny:f32, nz:f32, bind:i16, pad:i16)
	normals := make([][3]float32, nn)
	for j := 0; j < nn; j++ {
		_ = r.readI16() // node
		_ = r.readI16() // padding
		normals[j] = [3]float32{r.readF32(), r.readF32(), r.readF32()}
		_ = r.readI16() // bindVertex
		_ = r.readI16() // padding
	}

	// TexCoords: 8 bytes each (u:f32, v:f32)
	uvs := make([][2]float32, ntc)
	for j := 0; j < ntc; j++ {
		uvs[j] = [2]float32{r.readF32(), r.readF32()}
	}

	// Triangles: 64 bytes each
	tris := make([]Triangle, nt)
	for j := 0; j < nt; j++ {
		if !r.need(64) {
			break
		}
		base := r.off
		poly := int(r.data[base])
		var vi, ni, ti [4]int16
		for k := 0; k < 4; k++ {
			vi[k] = int16(binary.LittleEndian.Uint16(r.data[base+2+k*2:]))
			ni[k] = int16(binary.LittleEndian.Uint16(r.data[base+10+k*2:]))
			ti[k] = int16(binary.LittleEndian.Uint16(r.data[base+18+k*2:]))
		}
		tris[j] = Triangle{Polygon: poly, VI: vi, NI: ni, TI: ti}
		r.off += 64
	}

	texPath := strings.ReplaceAll(r.readStr(32), "\\", "/")

	return Mesh{
		Verts:   verts,
		Nodes:   nodes,
		Normals: normals,
		UVs:     uvs,
		Tris:    tris,
		TexPath: texPath,
	}
}
