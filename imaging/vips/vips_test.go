package vips

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/pyramid"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestVips(t *testing.T) {
	img, err := Vips{}.Open(encodePNG(t, 300, 200))
	if err != nil {
		t.Fatal(err)
	}

	if img.Width() != 300 || img.Height() != 200 {
		t.Fatalf("size: got %dx%d want 300x200", img.Width(), img.Height())
	}

	var tests = []struct {
		region pyramid.Region
		size   pyramid.Size
		width  int
		height int
	}{
		{pyramid.Region{X: 0, Y: 0, W: 128, H: 128}, pyramid.Size{W: 128, H: 128}, 128, 128},
		{pyramid.Region{X: 256, Y: 128, W: 44, H: 72}, pyramid.Size{W: 44, H: 72}, 44, 72},
		{pyramid.Region{X: 0, Y: 0, W: 256, H: 200}, pyramid.Size{W: 128}, 128, 100},
		{pyramid.Region{X: 0, Y: 0, W: 300, H: 200}, pyramid.Size{W: 480, H: 320}, 480, 320},
	}

	for _, test := range tests {
		buf, err := img.Resize(test.region, test.size)
		if err != nil {
			t.Errorf("%v: %v", test.region, err)
			continue
		}
		config, err := jpeg.DecodeConfig(bytes.NewReader(buf))
		if err != nil {
			t.Errorf("%v: not a JPEG: %v", test.region, err)
			continue
		}
		if config.Width != test.width || config.Height != test.height {
			t.Errorf("%v: got %dx%d want %dx%d", test.region, config.Width, config.Height, test.width, test.height)
		}
	}
}

func TestVipsFailing(t *testing.T) {
	if _, err := (Vips{}).Open([]byte("plain text")); !errors.Is(err, imaging.ErrUnsupportedFormat) {
		t.Errorf("text should not be opened, got: %v", err)
	}

	img, err := Vips{}.Open(encodePNG(t, 100, 100))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := img.Resize(pyramid.Region{X: 128, Y: 0, W: -28, H: 100}, pyramid.Size{W: -28}); !errors.Is(err, imaging.ErrEmptyRegion) {
		t.Errorf("got %v want %v", err, imaging.ErrEmptyRegion)
	}
	if _, err := img.Resize(pyramid.Region{X: 50, Y: 50, W: 100, H: 100}, pyramid.Size{W: 100}); !errors.Is(err, imaging.ErrOutOfBounds) {
		t.Errorf("got %v want %v", err, imaging.ErrOutOfBounds)
	}
}
