package pyramid

// maxScaleIterations caps the doubling so that degenerate inputs terminate.
const maxScaleIterations = 30

// ScaleFactors lists the power of two downsampling ratios needed so that the
// coarsest level fits in a single tile. The first factor is always 1.
func ScaleFactors(tileWidth, width, tileHeight, height int) []int {
	sf := 1
	factors := []int{sf}
	for j := 0; j < maxScaleIterations; j++ {
		sf = 2 * sf
		if tileWidth*sf > width && tileHeight*sf > height {
			break
		}
		factors = append(factors, sf)
	}
	return factors
}
