package pyramid

// Tiles walks the (region, size) pairs of every scale factor of a pyramid.
//
// For each scale factor the x axis runs one column past the last tile, which
// yields regions with a zero or negative width. They are kept so that the
// sequence stays identical to the one static Tesselle exports were built
// from; Generator drops them by default.
type Tiles struct {
	width    int
	height   int
	tileSize int
	factors  []int

	i       int
	inLevel bool
	rts     int
	xt, yt  int
	nx, ny  int

	region Region
	size   Size
	sf     int
}

// NewTiles returns a cursor positioned before the first tile. A tileSize
// that is not positive produces no tile.
func NewTiles(width, height, tileSize int, scaleFactors []int) *Tiles {
	return &Tiles{
		width:    width,
		height:   height,
		tileSize: tileSize,
		factors:  scaleFactors,
	}
}

// Next advances to the next tile, it returns false once exhausted.
func (t *Tiles) Next() bool {
	if t.tileSize <= 0 {
		return false
	}

	for {
		if !t.inLevel {
			if t.i >= len(t.factors) {
				return false
			}
			sf := t.factors[t.i]
			if sf <= 0 || (sf*t.tileSize > t.width && sf*t.tileSize >= t.height) {
				t.i++
				continue
			}
			t.sf = sf
			t.rts = t.tileSize * sf
			t.xt = floorDiv(t.width-1, t.rts) + 1
			t.yt = floorDiv(t.height-1, t.rts) + 1
			t.nx, t.ny = 0, 0
			t.inLevel = true
		}

		if t.nx > t.xt {
			t.inLevel = false
			t.i++
			continue
		}
		if t.ny >= t.yt {
			t.nx++
			t.ny = 0
			continue
		}

		rx := t.nx * t.rts
		rw := min(rx+t.rts, t.width) - rx
		ry := t.ny * t.rts
		rh := min(ry+t.rts, t.height) - ry

		t.region = Region{X: rx, Y: ry, W: rw, H: rh}
		t.size = Size{
			W: floorDiv(rw+t.sf-1, t.sf),
			H: floorDiv(rh+t.sf-1, t.sf),
		}
		t.ny++
		return true
	}
}

// Region of the current tile.
func (t *Tiles) Region() Region { return t.region }

// Size of the current tile.
func (t *Tiles) Size() Size { return t.size }

// ScaleFactor of the current tile.
func (t *Tiles) ScaleFactor() int { return t.sf }

// Reset rewinds the cursor.
func (t *Tiles) Reset() {
	*t = Tiles{
		width:    t.width,
		height:   t.height,
		tileSize: t.tileSize,
		factors:  t.factors,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
