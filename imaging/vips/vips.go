// Package vips resizes tiles with libvips through bimg.
package vips

import (
	"fmt"

	"gopkg.in/h2non/bimg.v1"

	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/pyramid"
)

// Vips opens images with libvips.
type Vips struct {
	Quality int
}

// Open reads the size of buf, the decoding happens on each Resize.
func (v Vips) Open(buf []byte) (pyramid.Image, error) {
	imageType := bimg.DetermineImageType(buf)
	if !bimg.IsTypeSupported(imageType) {
		return nil, fmt.Errorf("%w: libvips cannot read %#v", imaging.ErrUnsupportedFormat, bimg.ImageTypes[imageType])
	}

	size, err := bimg.NewImage(buf).Size()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrUnsupportedFormat, err)
	}

	quality := v.Quality
	if quality <= 0 {
		quality = imaging.DefaultQuality
	}

	return &Image{
		buffer:  buf,
		width:   size.Width,
		height:  size.Height,
		quality: quality,
	}, nil
}

// Image is a source image kept encoded.
type Image struct {
	buffer  []byte
	width   int
	height  int
	quality int
}

// Width of the image.
func (im *Image) Width() int { return im.width }

// Height of the image.
func (im *Image) Height() int { return im.height }

// Resize extracts region and scales it to size, as a JPEG.
func (im *Image) Resize(region pyramid.Region, size pyramid.Size) ([]byte, error) {
	if region.Empty() {
		return nil, fmt.Errorf("%w: %v", imaging.ErrEmptyRegion, region)
	}
	if region.X < 0 || region.Y < 0 || region.X+region.W > im.width || region.Y+region.H > im.height {
		return nil, fmt.Errorf("%w: %v", imaging.ErrOutOfBounds, region)
	}

	buffer := im.buffer
	if region != (pyramid.Region{X: 0, Y: 0, W: im.width, H: im.height}) {
		var err error
		buffer, err = bimg.NewImage(buffer).Extract(region.Y, region.X, region.W, region.H)
		if err != nil {
			return nil, fmt.Errorf("bimg couldn't extract the region: %w", err)
		}
	}

	w, h := imaging.TargetSize(region, size)
	options := bimg.Options{
		Width:   w,
		Height:  h,
		Force:   true,
		Enlarge: true,
		Type:    bimg.JPEG,
		Quality: im.quality,
	}

	out, err := bimg.NewImage(buffer).Process(options)
	if err != nil {
		return nil, fmt.Errorf("bimg couldn't process the image: %w", err)
	}
	return out, nil
}
