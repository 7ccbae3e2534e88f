package pyramid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPath is returned by ParsePath for anything outside the static tile grammar.
var ErrPath = errors.New("not a static tile path")

const pathSuffix = "/0/native.jpg"

// Path encodes a region and a size following the IIIF Image API grammar,
// keeping only the width of the size.
func Path(region Region, size Size) string {
	return fmt.Sprintf("/%d,%d,%d,%d/%d,%s", region.X, region.Y, region.W, region.H, size.W, pathSuffix)
}

// ParsePath is the inverse of Path. The returned size has no height.
func ParsePath(p string) (Region, Size, error) {
	var region Region
	var size Size

	if !strings.HasPrefix(p, "/") || !strings.HasSuffix(p, pathSuffix) {
		return region, size, fmt.Errorf("%w: %#v", ErrPath, p)
	}

	parts := strings.Split(strings.TrimSuffix(p[1:], pathSuffix), "/")
	if len(parts) != 2 || !strings.HasSuffix(parts[1], ",") {
		return region, size, fmt.Errorf("%w: %#v", ErrPath, p)
	}

	coords := strings.Split(parts[0], ",")
	if len(coords) != 4 {
		return region, size, fmt.Errorf("%w: %#v", ErrPath, p)
	}

	values := make([]int, 5)
	for i, s := range append(coords, strings.TrimSuffix(parts[1], ",")) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return region, size, fmt.Errorf("%w: %#v", ErrPath, p)
		}
		values[i] = v
	}

	region = Region{values[0], values[1], values[2], values[3]}
	size = Size{W: values[4]}
	return region, size, nil
}
