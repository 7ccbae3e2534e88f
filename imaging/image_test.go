package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/draw"

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

func TestOpen(t *testing.T) {
	img, err := Draw{}.Open(encodePNG(t, 120, 80))
	if err != nil {
		t.Fatal(err)
	}

	if img.Width() != 120 || img.Height() != 80 {
		t.Errorf("size: got %dx%d want 120x80", img.Width(), img.Height())
	}
	if format := img.(*Image).Format(); format != "png" {
		t.Errorf("format: got %s want png", format)
	}

	if _, err := (Draw{}).Open([]byte("plain text")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("text should not be decoded, got: %v", err)
	}
}

func TestResize(t *testing.T) {
	img, err := Draw{Quality: 75, Scaler: draw.ApproxBiLinear}.Open(encodePNG(t, 300, 200))
	if err != nil {
		t.Fatal(err)
	}

	var tests = []struct {
		region pyramid.Region
		size   pyramid.Size
		width  int
		height int
	}{
		{pyramid.Region{X: 0, Y: 0, W: 128, H: 128}, pyramid.Size{W: 128, H: 128}, 128, 128},
		{pyramid.Region{X: 256, Y: 128, W: 44, H: 72}, pyramid.Size{W: 44, H: 72}, 44, 72},
		{pyramid.Region{X: 0, Y: 0, W: 256, H: 200}, pyramid.Size{W: 128, H: 100}, 128, 100},
		{pyramid.Region{X: 0, Y: 0, W: 300, H: 200}, pyramid.Size{W: 480}, 480, 320},
		{pyramid.Region{X: 0, Y: 0, W: 300, H: 200}, pyramid.Size{H: 50}, 75, 50},
	}

	for _, test := range tests {
		body, err := img.Resize(test.region, test.size)
		if err != nil {
			t.Errorf("%v %v: %v", test.region, test.size, err)
			continue
		}
		config, err := jpeg.DecodeConfig(bytes.NewReader(body))
		if err != nil {
			t.Errorf("%v %v: not a JPEG: %v", test.region, test.size, err)
			continue
		}
		if config.Width != test.width || config.Height != test.height {
			t.Errorf("%v %v: got %dx%d want %dx%d", test.region, test.size, config.Width, config.Height, test.width, test.height)
		}
	}
}

func TestResizeFailing(t *testing.T) {
	img := NewImage(image.NewRGBA(image.Rect(0, 0, 100, 100)), DefaultQuality)

	var tests = []struct {
		region pyramid.Region
		size   pyramid.Size
		err    error
	}{
		{pyramid.Region{X: 100, Y: 0, W: 0, H: 100}, pyramid.Size{W: 0, H: 100}, ErrEmptyRegion},
		{pyramid.Region{X: 128, Y: 0, W: -28, H: 100}, pyramid.Size{W: -28, H: 100}, ErrEmptyRegion},
		{pyramid.Region{X: 50, Y: 50, W: 100, H: 10}, pyramid.Size{W: 100, H: 10}, ErrOutOfBounds},
		{pyramid.Region{X: 0, Y: 0, W: 10, H: 10}, pyramid.Size{W: -1, H: 10}, ErrEmptyRegion},
	}

	for _, test := range tests {
		if _, err := img.Resize(test.region, test.size); !errors.Is(err, test.err) {
			t.Errorf("%v %v: got %v want %v", test.region, test.size, err, test.err)
		}
	}
}

func TestResizeOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	sub := src.SubImage(image.Rect(32, 32, 64, 64))
	img := NewImage(sub, DefaultQuality)

	if img.Width() != 32 || img.Height() != 32 {
		t.Fatalf("size: got %dx%d want 32x32", img.Width(), img.Height())
	}
	if _, err := img.Resize(pyramid.Region{X: 0, Y: 0, W: 32, H: 32}, pyramid.Size{W: 16, H: 16}); err != nil {
		t.Errorf("regions are relative to the image bounds: %v", err)
	}
}

func TestPyramidOfImage(t *testing.T) {
	img, err := Draw{}.Open(encodePNG(t, 600, 400))
	if err != nil {
		t.Fatal(err)
	}

	g := pyramid.Generate(img, pyramid.Options{TileSize: 256})
	for g.Next() {
		tile := g.Tile()
		body, err := tile.Payload()
		if err != nil {
			t.Fatalf("%s: %v", tile.Path, err)
		}
		config, err := jpeg.DecodeConfig(bytes.NewReader(body))
		if err != nil {
			t.Fatalf("%s: %v", tile.Path, err)
		}
		if config.Width != tile.Size.W || config.Height != tile.Size.H {
			t.Errorf("%s: got %dx%d want %dx%d", tile.Path, config.Width, config.Height, tile.Size.W, tile.Size.H)
		}
	}
}
