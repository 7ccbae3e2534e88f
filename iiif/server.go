package iiif

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang/groupcache"
	"github.com/gorilla/mux"

	"github.com/medialab/tesselle/config"
)

// Names of the groupcache groups.
const (
	SourcesGroup = "sources"
	TilesGroup   = "tiles"

	groupcachePath = "/_groupcache/"
)

// MakeRouter construct the basic router (no middlewares)
func MakeRouter() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/{identifier:.*}/info.json", InfoHandler)
	router.HandleFunc("/{identifier:.*}/{region}/{size}/{rotation}/{quality}.{format}", ImageHandler)
	router.HandleFunc("/{identifier:.*}/{viewer}.html", ViewerHandler)
	router.HandleFunc("/{identifier:.*}", RedirectHandler)

	return router
}

// SetGroupCache sets the two caches for source images and tiles. The first
// peer is the current server. It registers the groupcache peer picker, so it
// can be called only once per process.
func SetGroupCache(router http.Handler, config *config.Config, images *Images, peers ...string) http.Handler {
	pool := groupcache.NewHTTPPoolOpts(peers[0], nil)
	pool.Set(peers...)

	var sources = groupcache.NewGroup(SourcesGroup, config.Cache.ImagesSize, groupcache.GetterFunc(
		func(ctx context.Context, key string, dest groupcache.Sink) error {
			buffer, modTime, err := images.Source.Read(key)
			if err != nil {
				return err
			}
			loggerFrom(ctx).WithField("identifier", key).Debug("Caching source")
			return dest.SetProto(newCacheableImage(buffer, modTime))
		},
	))

	var tiles = groupcache.NewGroup(TilesGroup, config.Cache.TilesSize, groupcache.GetterFunc(
		func(ctx context.Context, key string, dest groupcache.Sink) error {
			identifier, path, err := splitTileKey(key)
			if err != nil {
				return err
			}
			ci, err := resizeTile(ctx, config, images, sources, identifier, path)
			if err != nil {
				return err
			}
			loggerFrom(ctx).WithField("key", key).Debug("Caching tile")
			return dest.SetProto(newCacheableImage(ci.Buffer, ci.ModTime))
		},
	))

	return WithGroupCaches(withPool(router, pool), map[string]*groupcache.Group{
		SourcesGroup: sources,
		TilesGroup:   tiles,
	})
}

// withPool answers the requests of the other peers.
func withPool(h http.Handler, pool *groupcache.HTTPPool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, groupcachePath) {
			pool.ServeHTTP(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// NewHandler wires the router with its middlewares.
func NewHandler(config *config.Config, images *Images, peers ...string) http.Handler {
	handler := MakeRouter()
	if len(peers) > 0 {
		handler = SetGroupCache(handler, config, images, peers...)
	}
	handler = WithImages(handler, images)
	return WithConfig(handler, config)
}
