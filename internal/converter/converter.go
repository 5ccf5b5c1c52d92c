package converter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var (
	ErrDecode = errors.New("decode image")
	ErrEncode = errors.New("encode thumbnail")
)

const jpegQuality = 80

// Converter turns a source image into a JPEG thumbnail. Pure transform:
// no I/O, no shared state.
type Converter struct {
	MaxEdge int
}

func New(maxEdge int) *Converter {
	return &Converter{MaxEdge: maxEdge}
}

// Thumbnail decodes src, corrects camera orientation, fits the image
// inside a MaxEdge square without enlarging and re-encodes it as JPEG.
func (c *Converter) Thumbnail(src []byte) ([]byte, error) {
	img, err := decode(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img = orient(img, orientation(src))
	img = fitInside(img, c.MaxEdge)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func decode(src []byte) (image.Image, error) {
	if isWebP(src) {
		return webp.Decode(bytes.NewReader(src))
	}
	img, _, err := image.Decode(bytes.NewReader(src))
	return img, err
}

func isWebP(src []byte) bool {
	return len(src) >= 12 && bytes.Equal(src[:4], []byte("RIFF")) && bytes.Equal(src[8:12], []byte("WEBP"))
}

// fitInside scales img so neither edge exceeds maxEdge, preserving the
// aspect ratio. Images already small enough pass through untouched.
func fitInside(img image.Image, maxEdge int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w == 0 || h == 0 || maxEdge <= 0 {
		return img
	}

	longest := w
	if h > longest {
		longest = h
	}
	// Nothing to do - never upscale
	if longest <= maxEdge {
		return img
	}

	if w >= h {
		return imaging.Resize(img, maxEdge, 0, imaging.Lanczos)
	}
	return imaging.Resize(img, 0, maxEdge, imaging.Lanczos)
}
