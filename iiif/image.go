package iiif

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang/groupcache"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/medialab/tesselle/config"
	"github.com/medialab/tesselle/pyramid"
	"github.com/medialab/tesselle/source"
)

// tileSegments is the number of path elements of a tile path.
const tileSegments = 4

// ImageHandler serves the tiles of the static pyramid.
func ImageHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ctx := r.Context()

	config, _ := ctx.Value(ContextKey("config")).(*config.Config)
	images, _ := ctx.Value(ContextKey("images")).(*Images)
	sources, _ := ctx.Value(ContextKey(SourcesGroup)).(*groupcache.Group)
	tiles, _ := ctx.Value(ContextKey(TilesGroup)).(*groupcache.Group)
	logger := loggerFrom(ctx)

	identifier, err := source.ScrubIdentifier(vars["identifier"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	path := fmt.Sprintf("/%s/%s/%s/%s.%s", vars["region"], vars["size"], vars["rotation"], vars["quality"], vars["format"])
	if _, _, err := pyramid.ParsePath(path); err != nil {
		e := toHTTPError(err)
		http.Error(w, e.Error(), e.StatusCode)
		return
	}

	var ci *CroppedImage
	if tiles != nil {
		var image CacheableImage
		err = tiles.Get(ctx, identifier+path, groupcache.ProtoSink(&image))
		if err == nil {
			ci = &CroppedImage{image.GetBuffer(), image.modTime()}
		}
	} else {
		ci, err = resizeTile(ctx, config, images, sources, identifier, path)
	}

	if err != nil {
		e := toHTTPError(err)
		logger.WithFields(logrus.Fields{
			"identifier": identifier,
			"path":       path,
			"status":     e.StatusCode,
		}).Warn(err)
		http.Error(w, e.Error(), e.StatusCode)
		return
	}

	filename := strings.NewReplacer("/", "_", ":", "_", ",", "").Replace(identifier + path)

	disposition := "inline"
	_, present := r.URL.Query()["dl"]
	if present {
		disposition = "attachement"
	}

	header := w.Header()
	header.Set("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, filename))
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("ETag", getETag(identifier+path))
	header.Set("Cache-Control", fmt.Sprintf("max-age=%v, public", config.Cache.HTTP))
	http.ServeContent(w, r, "native.jpg", ci.ModTime, bytes.NewReader(ci.Buffer))
}

// resizeTile produces the tile at path, if the pyramid of the image has one.
func resizeTile(ctx context.Context, config *config.Config, images *Images, sources *groupcache.Group, identifier, path string) (*CroppedImage, error) {
	image, err := openImage(ctx, identifier, images, sources)
	if err != nil {
		return nil, err
	}

	tile, ok := findTile(image, config, path)
	if !ok {
		message := fmt.Sprintf("%s is not part of the pyramid of %s", path, identifier)
		return nil, HTTPError{http.StatusNotFound, message}
	}
	if tile.Region.Empty() {
		message := fmt.Sprintf("%s has no pixels", path)
		return nil, HTTPError{http.StatusNotFound, message}
	}

	buffer, err := tile.Payload()
	if err != nil {
		return nil, err
	}
	return &CroppedImage{buffer, image.ModTime}, nil
}

// openImage reads and decodes the image, going through the caches first.
func openImage(ctx context.Context, identifier string, images *Images, sources *groupcache.Group) (*LoadedImage, error) {
	if images.Rasters != nil {
		if img, ok := images.Rasters.Get(identifier); ok {
			if loaded, ok := img.(*LoadedImage); ok {
				return loaded, nil
			}
		}
	}

	var buffer []byte
	var modTime time.Time
	if sources != nil {
		var image CacheableImage
		if err := sources.Get(ctx, identifier, groupcache.ProtoSink(&image)); err != nil {
			return nil, err
		}
		buffer = image.GetBuffer()
		modTime = image.modTime()
	} else {
		var err error
		buffer, modTime, err = images.Source.Read(identifier)
		if err != nil {
			return nil, err
		}
	}

	img, err := images.Opener.Open(buffer)
	if err != nil {
		return nil, err
	}

	loaded := &LoadedImage{img, modTime}
	if images.Rasters != nil {
		images.Rasters.Set(identifier, loaded)
	}
	loggerFrom(ctx).WithFields(logrus.Fields{
		"identifier": identifier,
		"width":      img.Width(),
		"height":     img.Height(),
	}).Debug("Image opened")
	return loaded, nil
}

// findTile walks the pyramid until it meets path.
func findTile(img pyramid.Image, config *config.Config, path string) (pyramid.Tile, bool) {
	g := pyramid.Generate(img, pyramidOptions(config))
	for g.Next() {
		if tile := g.Tile(); tile.Path == path {
			return tile, true
		}
	}
	return pyramid.Tile{}, false
}

func pyramidOptions(config *config.Config) pyramid.Options {
	opts := pyramid.Options{
		TileSize:       config.Tiles.Size,
		SkipEmptyTiles: config.Tiles.SkipEmpty,
	}
	if len(config.Tiles.ScaleFactors) > 0 {
		opts.ScaleFactors = config.Tiles.ScaleFactors
	}
	return opts
}

// splitTileKey separates the identifier from the tile path of a cache key.
func splitTileKey(key string) (string, string, error) {
	parts := strings.Split(key, "/")
	n := len(parts) - tileSegments
	if n < 1 {
		return "", "", fmt.Errorf("%w: %#v", pyramid.ErrPath, key)
	}
	return strings.Join(parts[:n], "/"), "/" + strings.Join(parts[n:], "/"), nil
}
