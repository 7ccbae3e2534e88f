package profile

import (
	"github.com/medialab/tesselle/pyramid"
)

// Context and profile URIs of the IIIF Image API 2.1.
const (
	Context  = "http://iiif.io/api/image/2/context.json"
	Protocol = "http://iiif.io/api/image"
	Level0   = "http://iiif.io/api/image/2/level0.json"
)

// ImageProfile contains the technical properties about the service.
type ImageProfile struct {
	Context   string   `json:"@context,omitempty"`
	ID        string   `json:"@id,omitempty"`
	Type      string   `json:"@type,omitempty"` // empty or iiif:ImageProfile
	Formats   []string `json:"formats"`
	MaxArea   int      `json:"maxArea,omitempty"`
	MaxHeight int      `json:"maxHeight,omitempty"`
	MaxWidth  int      `json:"maxWidth,omitempty"`
	Qualities []string `json:"qualities"`
	Supports  []string `json:"supports,omitempty"`
}

// Size contains the information for the available sizes
type Size struct {
	Type   string `json:"@type,omitempty"` // empty or iiif:Size
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Tile contains the information to deal with tiles.
type Tile struct {
	Type         string `json:"@type,omitempty"` // empty or iiif:Tile
	ScaleFactors []int  `json:"scaleFactors"`
	Width        int    `json:"width"`
	Height       int    `json:"height,omitempty"`
}

// Image contains the technical properties about an image.
type Image struct {
	Context  string        `json:"@context"`
	ID       string        `json:"@id"`
	Type     string        `json:"@type,omitempty"` // empty or iiif:Image
	Protocol string        `json:"protocol"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Profile  []interface{} `json:"profile"`
	Sizes    []Size        `json:"sizes,omitempty"`
	Tiles    []Tile        `json:"tiles,omitempty"`
}

// NewProfile describes the static tile set of a width x height image, as
// produced by pyramid.Generate with the same tile size and scale factors.
func NewProfile(id string, width, height, tileSize int, scaleFactors []int) *Image {
	preview := pyramid.FitToBox(width, height, pyramid.PreviewWidth, pyramid.PreviewHeight)

	return &Image{
		Context:  Context,
		ID:       id,
		Type:     "iiif:Image",
		Protocol: Protocol,
		Width:    width,
		Height:   height,
		Profile: []interface{}{
			Level0,
			&ImageProfile{
				Context:   Context,
				Type:      "iiif:ImageProfile",
				Formats:   []string{"jpg"},
				Qualities: []string{"native"},
				Supports: []string{
					"cors",
					"jsonldMediaType",
					"regionByPx",
					"sizeByW",
				},
			},
		},
		Sizes: []Size{
			{Width: preview.W, Height: preview.H},
		},
		Tiles: []Tile{
			{
				ScaleFactors: scaleFactors,
				Width:        tileSize,
			},
		},
	}
}
