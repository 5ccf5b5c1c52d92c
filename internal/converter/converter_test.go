package converter

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func makePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnailFitInside(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxEdge      int
		wantW, wantH int
	}{
		{"landscape downscale", 1920, 1080, 640, 640, 360},
		{"portrait downscale", 1080, 1920, 640, 360, 640},
		{"square downscale", 1280, 1280, 640, 640, 640},
		{"small image untouched", 100, 50, 640, 100, 50},
		{"exactly max edge", 640, 480, 640, 640, 480},
		{"one pixel over", 641, 641, 640, 640, 640},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := New(test.maxEdge).Thumbnail(makePNG(t, test.w, test.h))
			if err != nil {
				t.Fatalf("Thumbnail: %v", err)
			}
			img, format, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("output format %q, want jpeg", format)
			}
			if gw, gh := img.Bounds().Dx(), img.Bounds().Dy(); gw != test.wantW || gh != test.wantH {
				t.Errorf("output %dx%d, want %dx%d", gw, gh, test.wantW, test.wantH)
			}
		})
	}
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := New(640).Thumbnail([]byte("definitely not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestThumbnailRejectsEmptyInput(t *testing.T) {
	_, err := New(640).Thumbnail(nil)
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected ErrDecode, got %v", err)
	}
}

func TestOrientTransforms(t *testing.T) {
	// 40x20 source; rotating orientations swap the edges
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))

	tests := []struct {
		orientation  int
		wantW, wantH int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
		{0, 40, 20}, // out of range falls back to identity
	}

	for _, test := range tests {
		out := orient(src, test.orientation)
		if w, h := out.Bounds().Dx(), out.Bounds().Dy(); w != test.wantW || h != test.wantH {
			t.Errorf("orientation %d: got %dx%d, want %dx%d", test.orientation, w, h, test.wantW, test.wantH)
		}
	}
}

func TestOrientationOfNonEXIFInput(t *testing.T) {
	if o := orientation(makePNG(t, 8, 8)); o != 1 {
		t.Errorf("png orientation = %d, want 1", o)
	}
	if o := orientation([]byte("garbage")); o != 1 {
		t.Errorf("garbage orientation = %d, want 1", o)
	}
}
