package raster

import (
	"image"
	"image/color"
	"math"

	"mu-bmd-blender/internal/bmd"
	"mu-bmd-blender/internal/mathutil"
	"mu-bmd-blender/internal/texture"
)

var (
	untexturedColor = color.NRGBA{160, 160, 170, 255}
	floorLight      = color.NRGBA{150, 150, 150, 255}
	floorDark       = color.NRGBA{105, 105, 110, 255}
)

// Options controls a render.
type Options struct {
	Size        int // output size after downsampling
	Supersample int
	Floor       bool // checkerboard ground plane at y = 0
	Light       LightConfig
}

// DefaultOptions renders at size with 2x supersampling and a floor.
func DefaultOptions(size int) Options {
	return Options{Size: size, Supersample: 2, Floor: true, Light: DefaultLightConfig()}
}

// Render rasterizes world-space meshes as seen by view into an image of
// Size*Supersample pixels.
func Render(meshes []bmd.Mesh, view View, tex texture.Resolver, opts Options) *image.NRGBA {
	ss := max(1, opts.Supersample)
	size := opts.Size * ss
	fb := NewFrameBuffer(size, size)

	extent := view.Extent
	if extent <= 0 {
		extent = fitExtent(meshes, view.basis(), view.Target)
	}
	if view.Zoom > 0 {
		extent /= view.Zoom
	}
	p := newProjector(view, size, extent)
	lc := opts.Light

	if opts.Floor {
		drawFloor(fb, p, view.Target, extent, &lc)
	}

	for _, mesh := range meshes {
		if len(mesh.Verts) == 0 {
			continue
		}
		drawMesh(fb, p, mesh, resolve(tex, mesh.TexPath), &lc)
	}
	return fb.Image()
}

func resolve(tex texture.Resolver, name string) *image.NRGBA {
	if tex == nil || name == "" {
		return nil
	}
	return tex.Resolve(name)
}

func drawMesh(fb *FrameBuffer, p projector, mesh bmd.Mesh, tex *image.NRGBA, lc *LightConfig) {
	world := make([]mathutil.Vec3, len(mesh.Verts))
	screen := make([]mathutil.Vec3, len(mesh.Verts))
	for i, v := range mesh.Verts {
		world[i] = mathutil.Vec3From32(v)
		screen[i] = p.project(world[i])
	}

	base := untexturedColor
	if tex != nil {
		base = averageColor(tex)
	}

	for _, tri := range mesh.Tris {
		corners := [][3]int{{0, 1, 2}}
		if tri.Polygon == 4 {
			corners = append(corners, [3]int{0, 2, 3})
		}
		for _, c := range corners {
			var vi, ti [3]int
			for k := 0; k < 3; k++ {
				vi[k] = int(tri.VI[c[k]])
				ti[k] = int(tri.TI[c[k]])
			}
			if !inRange(vi, len(world)) {
				continue
			}

			n := world[vi[1]].Sub(world[vi[0]]).Cross(world[vi[2]].Sub(world[vi[0]])).Normalize()
			if n.Len() == 0 {
				continue
			}
			s := Surface{Base: base, Shade: lc.ComputeShade(p.toView(n))}
			hasUV := tex != nil && inRange(ti, len(mesh.UVs))
			if hasUV {
				s.Tex = tex
			}

			var verts [3]Vertex
			for k := 0; k < 3; k++ {
				sp := screen[vi[k]]
				verts[k] = Vertex{X: sp[0], Y: sp[1], Z: sp[2]}
				if hasUV {
					uv := mesh.UVs[ti[k]]
					verts[k].U, verts[k].V = float64(uv[0]), float64(uv[1])
				}
			}
			RasterizeTriangle(fb, verts, s, lc)
		}
	}
}

func inRange(idx [3]int, n int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

const floorTiles = 8

// drawFloor lays a checkerboard under target, snapped to the tile grid so
// it scrolls with a tracking camera.
func drawFloor(fb *FrameBuffer, p projector, target mathutil.Vec3, extent float64, lc *LightConfig) {
	tile := extent / floorTiles
	cx := math.Floor(target[0] / tile)
	cz := math.Floor(target[2] / tile)
	shade := lc.ComputeShade(p.toView(mathutil.Vec3{0, 1, 0}))

	for i := -floorTiles; i < floorTiles; i++ {
		for j := -floorTiles; j < floorTiles; j++ {
			x0, z0 := (cx+float64(i))*tile, (cz+float64(j))*tile
			quad := [4]mathutil.Vec3{
				p.project(mathutil.Vec3{x0, 0, z0}),
				p.project(mathutil.Vec3{x0 + tile, 0, z0}),
				p.project(mathutil.Vec3{x0 + tile, 0, z0 + tile}),
				p.project(mathutil.Vec3{x0, 0, z0 + tile}),
			}
			col := floorLight
			if (int(cx)+i+int(cz)+j)&1 != 0 {
				col = floorDark
			}
			s := Surface{Base: col, Shade: shade}
			for _, c := range [][3]int{{0, 1, 2}, {0, 2, 3}} {
				var tri [3]Vertex
				for k, q := range c {
					tri[k] = Vertex{X: quad[q][0], Y: quad[q][1], Z: quad[q][2]}
				}
				RasterizeTriangle(fb, tri, s, lc)
			}
		}
	}
}

// fitExtent returns the square extent, centred on target, that holds every
// vertex with a margin.
func fitExtent(meshes []bmd.Mesh, b basis, target mathutil.Vec3) float64 {
	reach := 0.0
	for _, m := range meshes {
		for _, v := range m.Verts {
			c := b.toView(mathutil.Vec3From32(v).Sub(target))
			reach = math.Max(reach, math.Max(math.Abs(c[0]), math.Abs(c[1])))
		}
	}
	if reach < 1e-3 {
		return 1
	}
	return 2 * reach * 1.2
}

func averageColor(tex *image.NRGBA) color.NRGBA {
	b := tex.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return untexturedColor
	}

	var sum [3]float64
	for y := 0; y < h; y++ {
		off := y * tex.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sum[0] += float64(tex.Pix[i])
			sum[1] += float64(tex.Pix[i+1])
			sum[2] += float64(tex.Pix[i+2])
		}
	}
	n := float64(w * h)
	return color.NRGBA{clamp255(sum[0] / n), clamp255(sum[1] / n), clamp255(sum[2] / n), 255}
}
