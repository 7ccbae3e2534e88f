package pyramid

import "math"

// Preview bounding box of the full image view.
const (
	PreviewWidth  = 480
	PreviewHeight = 512
)

// FitToBox scales width x height to fit in maxWidth x maxHeight, keeping the
// aspect ratio. Smaller images are enlarged.
func FitToBox(width, height, maxWidth, maxHeight int) Size {
	ratio := math.Min(
		float64(maxWidth)/float64(width),
		float64(maxHeight)/float64(height),
	)

	w := int(math.Round(float64(width) * ratio))
	h := int(math.Round(float64(height) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Size{W: w, H: h}
}
