package converter

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// orientation reads the EXIF orientation tag from the raw source bytes.
// Anything unreadable (no EXIF segment, PNG/WebP input, truncated data)
// counts as the identity orientation.
func orientation(src []byte) int {
	x, err := exif.Decode(bytes.NewReader(src))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// orient maps the eight EXIF orientation values onto the corresponding
// flip/rotate so the produced thumbnail is upright. Applied before
// resizing.
func orient(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
