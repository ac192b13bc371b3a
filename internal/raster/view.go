package raster

import (
	"math"

	"mu-bmd-blender/internal/mathutil"
)

// View is an orthographic look-at projection.
// Extent is the world-space width shown across the image; zero fits the
// rendered geometry. Zoom magnifies either extent; zero means 1.
type View struct {
	Eye    mathutil.Vec3
	Target mathutil.Vec3
	Extent float64
	Zoom   float64
}

type basis struct {
	right, up, fwd mathutil.Vec3
}

func (v View) basis() basis {
	fwd := v.Target.Sub(v.Eye).Normalize()
	if fwd.Len() == 0 {
		fwd = mathutil.Vec3{0, 0, -1}
	}
	up := mathutil.Vec3{0, 1, 0}
	if math.Abs(fwd.Dot(up)) > 0.999 {
		up = mathutil.Vec3{0, 0, -1}
	}
	right := fwd.Cross(up).Normalize()
	return basis{right: right, up: right.Cross(fwd), fwd: fwd}
}

// toView expresses a world direction in camera coordinates (x right, y up,
// z towards the viewer).
func (b basis) toView(d mathutil.Vec3) mathutil.Vec3 {
	return mathutil.Vec3{d.Dot(b.right), d.Dot(b.up), -d.Dot(b.fwd)}
}

// projector maps world points to framebuffer pixels. Larger Z is nearer.
type projector struct {
	basis
	origin mathutil.Vec3
	scale  float64
	half   float64
}

func newProjector(v View, size int, extent float64) projector {
	if extent < 1e-3 {
		extent = 1e-3
	}
	return projector{
		basis:  v.basis(),
		origin: v.Target,
		scale:  float64(size) / extent,
		half:   float64(size) / 2,
	}
}

func (p projector) project(w mathutil.Vec3) mathutil.Vec3 {
	c := p.toView(w.Sub(p.origin))
	return mathutil.Vec3{p.half + c[0]*p.scale, p.half - c[1]*p.scale, c[2]}
}

// Project returns the pixel position and depth of a world point as seen by v
// in an image of the given size.
func (v View) Project(w mathutil.Vec3, size int) mathutil.Vec3 {
	return newProjector(v, size, v.Extent).project(w)
}
