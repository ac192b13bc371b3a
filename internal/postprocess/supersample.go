// Package postprocess finishes rendered frames before encoding.
package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled frame to size x size with Catmull-Rom
// filtering. Filtering runs on premultiplied alpha so transparent edges do
// not pick up dark halos. Images already at or below size are returned as is.
func Downsample(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}

	premul := image.NewRGBA(b)
	draw.Copy(premul, b.Min, img, b, draw.Src, nil)

	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, b, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.Copy(out, image.Point{}, scaled, scaled.Bounds(), draw.Src, nil)
	return out
}
