package iiif

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/medialab/tesselle/cache"
	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/pyramid"
	"github.com/medialab/tesselle/source"
)

// Images bundles where source images are read from and how they are opened.
type Images struct {
	Source  source.Source
	Opener  imaging.Opener
	Rasters cache.Rasters
}

// LoadedImage represents an image just loaded from its source or the cache.
type LoadedImage struct {
	pyramid.Image
	ModTime time.Time
}

// CroppedImage represents a tile ready to be served or cached.
type CroppedImage struct {
	Buffer  []byte
	ModTime time.Time
}

// CacheableImage is the groupcache representation of both the source images
// and the tiles.
type CacheableImage struct {
	ModTime []byte `protobuf:"bytes,1,opt,name=modTime,proto3" json:"modTime,omitempty"`
	Buffer  []byte `protobuf:"bytes,2,opt,name=buffer,proto3" json:"buffer,omitempty"`
}

func (m *CacheableImage) Reset()         { *m = CacheableImage{} }
func (m *CacheableImage) String() string { return proto.CompactTextString(m) }
func (*CacheableImage) ProtoMessage()    {}

// GetModTime returns the binary encoded modification time.
func (m *CacheableImage) GetModTime() []byte {
	if m != nil {
		return m.ModTime
	}
	return nil
}

// GetBuffer returns the image bytes.
func (m *CacheableImage) GetBuffer() []byte {
	if m != nil {
		return m.Buffer
	}
	return nil
}

func newCacheableImage(buffer []byte, modTime time.Time) *CacheableImage {
	binTime, _ := modTime.MarshalBinary()
	return &CacheableImage{
		ModTime: binTime,
		Buffer:  buffer,
	}
}

func (m *CacheableImage) modTime() time.Time {
	var t time.Time
	if err := t.UnmarshalBinary(m.GetModTime()); err != nil {
		return time.Now()
	}
	return t
}
