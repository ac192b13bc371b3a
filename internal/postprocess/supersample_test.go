package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownsampleKeepsSmallImages(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	assert.Same(t, img, Downsample(img, 16))
}

func TestDownsampleHalfCovered(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 16; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	out := Downsample(img, 16)
	assert.Equal(t, image.Rect(0, 0, 16, 16), out.Bounds())

	inside := out.NRGBAAt(2, 8)
	assert.Equal(t, uint8(255), inside.A)
	assert.Equal(t, uint8(255), inside.R)

	assert.Equal(t, uint8(0), out.NRGBAAt(14, 8).A)
}
