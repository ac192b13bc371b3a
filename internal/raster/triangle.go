package raster

import (
	"image"
	"image/color"
	"math"
)

// Vertex is a projected vertex: pixel position, depth and texture coordinate.
type Vertex struct {
	X, Y, Z float64
	U, V    float64
}

// Surface is the material of one triangle. Tex nil means flat Base color.
type Surface struct {
	Tex   *image.NRGBA
	Base  color.NRGBA
	Shade float64
}

// RasterizeTriangle fills tri with z-buffering. Texels with alpha below 8
// are discarded without touching depth.
func RasterizeTriangle(fb *FrameBuffer, tri [3]Vertex, s Surface, lc *LightConfig) {
	a, b, c := tri[0], tri[1], tri[2]

	minX := max(0, int(math.Floor(math.Min(math.Min(a.X, b.X), c.X))))
	maxX := min(fb.Width-1, int(math.Ceil(math.Max(math.Max(a.X, b.X), c.X))))
	minY := max(0, int(math.Floor(math.Min(math.Min(a.Y, b.Y), c.Y))))
	maxY := min(fb.Height-1, int(math.Ceil(math.Max(math.Max(a.Y, b.Y), c.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(det) < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := b.Y - c.Y
	dx21 := c.X - b.X
	dy20 := c.Y - a.Y
	dx02 := a.X - c.X

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - c.Y
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - c.X
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*a.Z + w1*b.Z + w2*c.Z
			zi := row + sx
			if z <= fb.ZBuf[zi] {
				continue
			}

			cr, cg, cb, ca := s.Base.R, s.Base.G, s.Base.B, s.Base.A
			if s.Tex != nil {
				u := w0*a.U + w1*b.U + w2*c.U
				v := w0*a.V + w1*b.V + w2*c.V
				cr, cg, cb, ca = SampleTexture(s.Tex, u, v)
			}
			if ca < 8 {
				continue
			}
			fb.ZBuf[zi] = z

			pi := zi * 4
			fb.Color[pi] = lc.Apply(cr, s.Shade)
			fb.Color[pi+1] = lc.Apply(cg, s.Shade)
			fb.Color[pi+2] = lc.Apply(cb, s.Shade)
			fb.Color[pi+3] = ca
		}
	}
}
