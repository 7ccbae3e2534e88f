package pyramid

import "iter"

// Options configures a Generator.
type Options struct {
	// TileSize is the side of a tile in output pixels.
	TileSize int
	// ScaleFactors overrides the ones computed from the image and TileSize.
	ScaleFactors []int
	// SkipEmptyTiles leaves out the regions without any pixel, such as the
	// trailing column of each level.
	SkipEmptyTiles bool
}

// Generator lazily yields the tiles of an image pyramid followed by the full
// image preview. Every enumerated region is emitted, empty ones included,
// unless SkipEmptyTiles is set. Payloads are not resolved by the generator.
type Generator struct {
	img       Image
	factors   []int
	skipEmpty bool
	tiles     *Tiles
	preview   bool
	tile      Tile
}

// Generate prepares the pyramid of img.
func Generate(img Image, opts Options) *Generator {
	width, height := img.Width(), img.Height()

	factors := opts.ScaleFactors
	if factors == nil {
		factors = ScaleFactors(opts.TileSize, width, opts.TileSize, height)
	}

	return &Generator{
		img:       img,
		factors:   factors,
		skipEmpty: opts.SkipEmptyTiles,
		tiles:     NewTiles(width, height, opts.TileSize, factors),
	}
}

// ScaleFactors used by the generator.
func (g *Generator) ScaleFactors() []int {
	return g.factors
}

// Next computes the next tile.
func (g *Generator) Next() bool {
	for g.tiles.Next() {
		region := g.tiles.Region()
		if region.Empty() && g.skipEmpty {
			continue
		}
		g.tile = g.newTile(region, g.tiles.Size(), g.tiles.ScaleFactor())
		return true
	}

	if g.preview {
		return false
	}
	g.preview = true

	width, height := g.img.Width(), g.img.Height()
	g.tile = g.newTile(
		Region{0, 0, width, height},
		FitToBox(width, height, PreviewWidth, PreviewHeight),
		0,
	)
	return true
}

// Tile returns the current tile.
func (g *Generator) Tile() Tile {
	return g.tile
}

// Reset rewinds the generator to its first tile.
func (g *Generator) Reset() {
	g.tiles.Reset()
	g.preview = false
	g.tile = Tile{}
}

// All rewinds the generator and ranges over every tile.
func (g *Generator) All() iter.Seq[Tile] {
	return func(yield func(Tile) bool) {
		g.Reset()
		for g.Next() {
			if !yield(g.tile) {
				return
			}
		}
	}
}

// Paths lists the path of every tile, without resolving any payload.
func (g *Generator) Paths() []string {
	var paths []string
	for tile := range g.All() {
		paths = append(paths, tile.Path)
	}
	return paths
}

func (g *Generator) newTile(region Region, size Size, sf int) Tile {
	img := g.img
	return Tile{
		Path:        Path(region, size),
		Region:      region,
		Size:        size,
		ScaleFactor: sf,
		Payload: func() ([]byte, error) {
			return img.Resize(region, size)
		},
	}
}
