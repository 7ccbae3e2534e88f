package cache

import (
	"github.com/dgraph-io/ristretto/v2"

	"github.com/medialab/tesselle/pyramid"
)

// bytesPerPixel estimates the memory held by a decoded RGBA raster.
const bytesPerPixel = 4

// Memory is a cost bounded cache of decoded images.
type Memory struct {
	cache *ristretto.Cache[string, pyramid.Image]
}

// NewMemory builds a cache holding up to maxCost bytes of pixels.
func NewMemory(maxCost int64) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, pyramid.Image]{
		NumCounters: 10000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Memory{cache: c}, nil
}

// Get returns the image stored under identifier.
func (m *Memory) Get(identifier string) (pyramid.Image, bool) {
	return m.cache.Get(identifier)
}

// Set stores img, weighted by its pixel count. Images larger than the whole
// cache are dropped.
func (m *Memory) Set(identifier string, img pyramid.Image) {
	cost := int64(img.Width()) * int64(img.Height()) * bytesPerPixel
	m.cache.Set(identifier, img, cost)
	m.cache.Wait()
}

// Close stops the cache goroutines.
func (m *Memory) Close() {
	m.cache.Close()
}
