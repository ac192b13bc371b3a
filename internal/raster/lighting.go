package raster

import (
	"math"

	"mu-bmd-blender/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in view
// space: x right, y up, z towards the viewer.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	HalfMain mathutil.Vec3 // Blinn-Phong half vector of LightDir and the view axis
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig is a key light from the upper right plus a cool rim
// from behind the figure.
func DefaultLightConfig() LightConfig {
	lightDir := mathutil.Vec3{0.45, 0.65, 0.6}.Normalize()
	rimDir := mathutil.Vec3{-0.5, 0.4, -0.75}.Normalize()
	viewDir := mathutil.Vec3{0, 0, 1}

	return LightConfig{
		LightDir: lightDir,
		RimDir:   rimDir,
		HalfMain: lightDir.Add(viewDir).Normalize(),
		Ambient:  0.45,
		Hemi:     0.40,
		Direct:   1.20,
		Rim:      0.50,
		SpecInt:  0.30,
		SpecPow:  12.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// ComputeShade returns the combined lighting scalar for a view-space face
// normal. Faces are lit from both sides.
func (lc *LightConfig) ComputeShade(normal mathutil.Vec3) float64 {
	ndlMain := math.Abs(normal.Dot(lc.LightDir))
	ndlRim := math.Abs(normal.Dot(lc.RimDir))

	hemi := (math.Abs(normal[1]))*0.5 + 0.5

	ndh := math.Abs(normal.Dot(lc.HalfMain))
	spec := math.Pow(ndh, lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi*lc.Hemi + ndlMain*lc.Direct + ndlRim*lc.Rim + spec
}

// Apply lights one sRGB channel value: decode, scale by shade, tone map and
// re-encode.
func (lc *LightConfig) Apply(c uint8, shade float64) uint8 {
	lin := srgbToLinear[c] * shade * lc.Exposure
	return clamp255(math.Pow(ACESTonemap(lin), lc.InvGamma) * 255)
}

var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES Filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
