package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	// decoders
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/medialab/tesselle/pyramid"
)

// DefaultQuality of the encoded JPEG tiles.
const DefaultQuality = 90

var (
	// ErrUnsupportedFormat is returned when no decoder recognizes the data.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrEmptyRegion is returned when asked to resize a region without pixels.
	ErrEmptyRegion = errors.New("empty region")
	// ErrOutOfBounds is returned for a region leaving the image.
	ErrOutOfBounds = errors.New("region out of the image")
)

// Opener turns the bytes of a source image into a pyramid.Image.
type Opener interface {
	Open(buf []byte) (pyramid.Image, error)
}

// Draw opens images with the standard decoders and resizes them with
// golang.org/x/image/draw.
type Draw struct {
	Quality int
	Scaler  draw.Scaler
}

// Open decodes buf.
func (d Draw) Open(buf []byte) (pyramid.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	quality := d.Quality
	if quality <= 0 {
		quality = DefaultQuality
	}
	scaler := d.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}

	return &Image{
		img:     img,
		format:  format,
		quality: quality,
		scaler:  scaler,
	}, nil
}

// Image is a decoded raster.
type Image struct {
	img     image.Image
	format  string
	quality int
	scaler  draw.Scaler
}

// NewImage wraps an already decoded image.
func NewImage(img image.Image, quality int) *Image {
	return &Image{
		img:     img,
		format:  "raw",
		quality: quality,
		scaler:  draw.CatmullRom,
	}
}

// Width of the image.
func (im *Image) Width() int { return im.img.Bounds().Dx() }

// Height of the image.
func (im *Image) Height() int { return im.img.Bounds().Dy() }

// Format is the name of the decoder which read the image.
func (im *Image) Format() string { return im.format }

// Resize crops region and scales it to size, as a JPEG.
func (im *Image) Resize(region pyramid.Region, size pyramid.Size) ([]byte, error) {
	if region.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRegion, region)
	}

	bounds := im.img.Bounds()
	src := image.Rect(region.X, region.Y, region.X+region.W, region.Y+region.H).Add(bounds.Min)
	if !src.In(bounds) {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, region)
	}

	w, h := TargetSize(region, size)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrEmptyRegion, size)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	im.scaler.Scale(dst, dst.Bounds(), im.img, src, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: im.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TargetSize completes a size missing its width or height from the aspect
// ratio of the region.
func TargetSize(region pyramid.Region, size pyramid.Size) (int, int) {
	w, h := size.W, size.H
	if h == 0 && region.W > 0 {
		h = max(int(math.Round(float64(region.H)*float64(w)/float64(region.W))), 1)
	} else if w == 0 && region.H > 0 {
		w = max(int(math.Round(float64(region.W)*float64(h)/float64(region.H))), 1)
	}
	return w, h
}
