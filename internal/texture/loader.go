package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Encrypted container headers in front of the real image data.
const (
	ozjHeader = 24 // JPEG
	oztHeader = 4  // TGA
)

// LoadTexture reads a JPG, TGA, OZJ or OZT file and returns an NRGBA image.
func LoadTexture(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes raw bytes according to the file extension ext.
func Decode(raw []byte, ext string) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(bytes.NewReader(raw))
	case ".tga":
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".ozj":
		if len(raw) <= ozjHeader {
			return nil, fmt.Errorf("OZJ too short (%d bytes)", len(raw))
		}
		img, err = jpeg.Decode(bytes.NewReader(raw[ozjHeader:]))
	case ".ozt":
		if len(raw) <= oztHeader {
			return nil, fmt.Errorf("OZT too short (%d bytes)", len(raw))
		}
		img, err = tga.Decode(bytes.NewReader(raw[oztHeader:]))
	default:
		return nil, fmt.Errorf("unknown extension %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, src, b, draw.Src, nil)
	return dst
}
