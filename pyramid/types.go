package pyramid

// Region is a pixel rectangle in source image space.
type Region struct {
	X int
	Y int
	W int
	H int
}

// Empty reports whether the region covers no pixel.
func (r Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Size is the output size of a tile. A zero H means the height follows the
// aspect ratio of the region.
type Size struct {
	W int
	H int
}

// Image is the source raster the pyramid is cut from.
type Image interface {
	Width() int
	Height() int
	Resize(region Region, size Size) ([]byte, error)
}

// Payload produces the bytes of a tile when called.
type Payload func() ([]byte, error)

// Tile is one addressable output image. The full image preview has a zero
// ScaleFactor.
type Tile struct {
	Path        string
	Region      Region
	Size        Size
	ScaleFactor int
	Payload     Payload
}
