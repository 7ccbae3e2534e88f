package cache

import (
	"github.com/medialab/tesselle/pyramid"
)

// Rasters keeps opened source images by identifier.
type Rasters interface {
	Get(identifier string) (pyramid.Image, bool)
	Set(identifier string, img pyramid.Image)
	Close()
}

// NewRasters returns a memory cache bounded to size bytes, or a cache keeping
// nothing when size is zero.
func NewRasters(size int64) (Rasters, error) {
	if size <= 0 {
		return Null{}, nil
	}
	return NewMemory(size)
}

// Null never keeps anything.
type Null struct{}

// Get always misses.
func (Null) Get(string) (pyramid.Image, bool) { return nil, false }

// Set does nothing.
func (Null) Set(string, pyramid.Image) {}

// Close does nothing.
func (Null) Close() {}
